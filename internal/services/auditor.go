package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"partaudit/internal/domain"
	"partaudit/internal/metrics"
)

// StreamAuditor runs the full check over one stream directory. The tree is
// walked once and the leaf set feeds both the order check and the
// completeness check.
type StreamAuditor struct {
	fs         FileSystem
	walker     *TreeWalker
	validator  *OrderValidator
	classifier *PartitionClassifier
	checker    *CompletenessChecker
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewStreamAuditor(fs FileSystem, order domain.Ordering, maxDepth int, m *metrics.Metrics, logger *zap.Logger) *StreamAuditor {
	logger = nopIfNil(logger)
	return &StreamAuditor{
		fs:         fs,
		walker:     NewTreeWalker(fs, maxDepth, logger),
		validator:  NewOrderValidator(logger),
		classifier: NewPartitionClassifier(fs, order, logger),
		checker:    NewCompletenessChecker(fs, logger),
		metrics:    m,
		logger:     logger,
	}
}

// AuditStream audits the partitions beneath streamRoot. Walk, leaf stat and
// time key failures abort the stream; per-path failures during classification
// and completeness checks come back as report issues.
func (auditor *StreamAuditor) AuditStream(ctx context.Context, streamRoot string) (domain.StreamReport, error) {
	start := time.Now()
	streamRoot = cleanPath(streamRoot)
	report := domain.StreamReport{Path: streamRoot}

	leaves, err := auditor.walker.DiscoverLeaves(ctx, streamRoot)
	if err != nil {
		return report, err
	}
	report.Leaves = leaves.Len()

	index, err := auditor.buildIndex(ctx, streamRoot, leaves)
	if err != nil {
		return report, err
	}
	report.OutOfOrder = auditor.validator.FindOutOfOrder(index)

	hours, minutes, classifyIssues, err := auditor.classifier.Classify(ctx, leaves)
	if err != nil {
		return report, err
	}
	missing, completeIssues, err := auditor.checker.FindMissing(ctx, hours, minutes)
	if err != nil {
		return report, err
	}
	report.Missing = missing
	report.Issues = append(classifyIssues, completeIssues...)
	report.Duration = time.Since(start)

	auditor.metrics.RecordStream(report)
	auditor.logger.Info("stream audited",
		zap.String("path", streamRoot),
		zap.Int("leaves", report.Leaves),
		zap.Int("out_of_order", len(report.OutOfOrder)),
		zap.Int("missing", len(report.Missing)),
		zap.Int("issues", len(report.Issues)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (auditor *StreamAuditor) buildIndex(ctx context.Context, streamRoot string, leaves domain.LeafSet) (*domain.CreationTimeIndex, error) {
	index := domain.NewCreationTimeIndex()
	for _, path := range leaves.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := auditor.fs.Stat(path)
		if err != nil {
			return nil, domain.FilesystemError(path, err)
		}
		key, err := domain.DeriveTimeKey(streamRoot, path)
		if err != nil {
			return nil, err
		}
		if previous, exists := index.Get(key); exists {
			auditor.logger.Debug("time key superseded",
				zap.String("key", key.String()),
				zap.String("previous", previous.Path),
				zap.String("path", path),
			)
		}
		index.Put(key, entry)
	}
	return index, nil
}
