package services

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"partaudit/internal/domain"
)

type PartitionClassifier struct {
	fs     FileSystem
	order  domain.Ordering
	logger *zap.Logger
}

func NewPartitionClassifier(fs FileSystem, order domain.Ordering, logger *zap.Logger) *PartitionClassifier {
	if order == nil {
		order = domain.ParentThenName
	}
	return &PartitionClassifier{fs: fs, order: order, logger: nopIfNil(logger)}
}

// Classify sorts leaves into hour and minute partitions. Each leaf is stat'ed
// again, so a leaf that changed since the walk is classified by what is on
// storage now. A leaf that cannot be stat'ed is reported as an issue and skipped.
func (classifier *PartitionClassifier) Classify(ctx context.Context, leaves domain.LeafSet) (*domain.PartitionSet, *domain.PartitionSet, []domain.PathIssue, error) {
	hours := domain.NewPartitionSet(classifier.order)
	minutes := domain.NewPartitionSet(classifier.order)
	var issues []domain.PathIssue
	for _, path := range leaves.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		entry, err := classifier.fs.Stat(path)
		if err != nil {
			classifier.logger.Warn("cannot stat leaf partition", zap.String("path", path), zap.Error(err))
			issues = append(issues, domain.PathIssue{
				Stage: domain.StageClassify,
				Path:  path,
				Err:   domain.FilesystemError(path, err),
			})
			continue
		}
		if entry.IsDir() {
			minutes.Add(path)
			hours.Add(filepath.Dir(path))
		} else {
			minutes.Add(filepath.Dir(path))
			hours.Add(filepath.Dir(filepath.Dir(path)))
		}
	}
	return hours, minutes, issues, nil
}
