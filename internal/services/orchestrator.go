package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"partaudit/internal/domain"
	"partaudit/internal/metrics"
)

// ErrStrictIssues is returned in strict mode when any path issue was recovered.
var ErrStrictIssues = errors.New("recovered path issues in strict mode")

var errWorkerPanic = errors.New("audit worker panicked")

const progressBuffer = 64

// Orchestrator audits every (root, base, stream) combination of a request and
// merges the per-stream reports into one result.
type Orchestrator struct {
	fs          FileSystem
	order       domain.Ordering
	maxDepth    int
	concurrency int
	failFast    bool
	strict      bool
	metrics     *metrics.Metrics
	logger      *zap.Logger
	progress    chan AuditProgress
}

type Option func(*Orchestrator)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = nopIfNil(logger) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithOrdering(order domain.Ordering) Option {
	return func(o *Orchestrator) {
		if order != nil {
			o.order = order
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(o *Orchestrator) { o.maxDepth = depth }
}

// WithConcurrency sets how many streams are audited at once. Values below 2
// keep the audit sequential.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) { o.concurrency = n }
}

func WithFailFast(failFast bool) Option {
	return func(o *Orchestrator) { o.failFast = failFast }
}

func WithStrict(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

func NewOrchestrator(fs FileSystem, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fs:          fs,
		order:       domain.ParentThenName,
		maxDepth:    DefaultMaxDepth,
		concurrency: 1,
		failFast:    true,
		logger:      zap.NewNop(),
		progress:    make(chan AuditProgress, progressBuffer),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Progress() <-chan AuditProgress {
	return o.progress
}

type streamJob struct {
	root    string
	base    string
	stream  string
	path    string
	planErr error
}

type streamOutcome struct {
	done   bool
	report domain.StreamReport
	err    error
}

// Audit runs the request. With fail-fast the first stream failure, in
// combination order, ends the run and the result holds only the streams before
// it. Otherwise every failure is collected and returned together with the full
// result.
func (o *Orchestrator) Audit(ctx context.Context, req AuditRequest) (domain.AuditResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))
	result := domain.AuditResult{RunID: runID}

	if len(req.Roots) == 0 {
		return result, domain.ArgumentError("at least one root directory is required")
	}
	bases := req.BaseDirs
	if len(bases) == 0 {
		bases = DefaultBaseDirs
	}

	jobs := o.plan(logger, req.Roots, bases, req.Streams)
	logger.Info("audit started",
		zap.Strings("roots", req.Roots),
		zap.Strings("base_dirs", bases),
		zap.Int("streams", len(jobs)),
		zap.Int("concurrency", o.concurrency),
	)

	auditor := NewStreamAuditor(o.fs, o.order, o.maxDepth, o.metrics, logger)
	outcomes, err := o.execute(ctx, logger, auditor, jobs)
	if err != nil {
		return result, err
	}

	var runErr error
	for i, job := range jobs {
		outcome := outcomes[i]
		if !outcome.done {
			continue
		}
		if outcome.err != nil {
			result.Failures = append(result.Failures, domain.StreamFailure{
				Root:    job.root,
				BaseDir: job.base,
				Stream:  job.stream,
				Err:     outcome.err,
			})
			o.metrics.RecordFailure()
			logger.Error("stream failed", zap.String("path", job.path), zap.Error(outcome.err))
			runErr = multierr.Append(runErr, fmt.Errorf("stream %s: %w", job.path, outcome.err))
			if o.failFast {
				break
			}
			continue
		}
		result.Streams = append(result.Streams, outcome.report)
		result.OutOfOrder = append(result.OutOfOrder, outcome.report.OutOfOrder...)
		result.Missing = append(result.Missing, outcome.report.Missing...)
	}

	if o.strict {
		if issues := result.Issues(); len(issues) > 0 {
			runErr = multierr.Append(runErr, fmt.Errorf("%w: %d", ErrStrictIssues, len(issues)))
		}
	}

	result.Duration = time.Since(start)
	o.metrics.RecordRun(result.Duration, time.Now())
	progressNonBlocking(o.progress, AuditProgress{
		Audited:   len(result.Streams),
		Total:     len(jobs),
		Completed: true,
	})
	logger.Info("audit finished",
		zap.Int("streams", len(result.Streams)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("out_of_order", len(result.OutOfOrder)),
		zap.Int("missing", len(result.Missing)),
		zap.Duration("duration", result.Duration),
	)
	return result, runErr
}

// plan expands the request into stream jobs in combination order. Streams are
// discovered by listing root/base when none are named; a discovery failure
// becomes a job that fails without running.
func (o *Orchestrator) plan(logger *zap.Logger, roots, bases, streams []string) []streamJob {
	var jobs []streamJob
	for _, root := range roots {
		for _, base := range bases {
			names := streams
			if len(names) == 0 {
				discovered, err := o.discoverStreams(root, base)
				if err != nil {
					logger.Warn("cannot discover streams",
						zap.String("root", root),
						zap.String("base_dir", base),
						zap.Error(err),
					)
					jobs = append(jobs, streamJob{
						root:    root,
						base:    base,
						path:    filepath.Join(root, base),
						planErr: err,
					})
					continue
				}
				names = discovered
			}
			for _, name := range names {
				jobs = append(jobs, streamJob{
					root:   root,
					base:   base,
					stream: name,
					path:   filepath.Join(root, base, name),
				})
			}
		}
	}
	return jobs
}

func (o *Orchestrator) discoverStreams(root, base string) ([]string, error) {
	dir := filepath.Join(root, base)
	entries, err := o.fs.List(dir)
	if err != nil {
		return nil, domain.FilesystemError(dir, err)
	}
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	return names, nil
}

// execute runs the jobs sequentially or on an ants pool. Outcomes line up with
// jobs; a job never started is left not done. Under fail-fast no job is
// started once a failure has been seen, and jobs are started in order, so the
// first failing job is always started.
func (o *Orchestrator) execute(ctx context.Context, logger *zap.Logger, auditor *StreamAuditor, jobs []streamJob) ([]streamOutcome, error) {
	outcomes := make([]streamOutcome, len(jobs))
	var audited atomic.Int64
	var failed atomic.Bool

	runJob := func(i int) {
		outcomes[i] = o.runJob(ctx, logger, auditor, jobs[i])
		if outcomes[i].err != nil {
			failed.Store(true)
		}
		n := audited.Add(1)
		msg := AuditProgress{Stream: jobs[i].path, Audited: int(n), Total: len(jobs)}
		if outcomes[i].err != nil {
			msg.ErrMessage = outcomes[i].err.Error()
		}
		progressNonBlocking(o.progress, msg)
	}

	if o.concurrency <= 1 || len(jobs) <= 1 {
		for i := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runJob(i)
			if o.failFast && failed.Load() {
				break
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return outcomes, nil
	}

	pool, err := ants.NewPool(o.concurrency,
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range jobs {
		if o.failFast && failed.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					outcomes[i] = streamOutcome{done: true, err: fmt.Errorf("%w: %v", errWorkerPanic, p)}
					failed.Store(true)
					logger.Error("audit worker panic recovered",
						zap.String("path", jobs[i].path),
						zap.Any("panic", p),
						zap.Stack("stack"),
					)
				}
			}()
			runJob(i)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit stream %s: %w", jobs[i].path, submitErr)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (o *Orchestrator) runJob(ctx context.Context, logger *zap.Logger, auditor *StreamAuditor, job streamJob) streamOutcome {
	if job.planErr != nil {
		return streamOutcome{done: true, err: job.planErr}
	}
	entries, err := o.fs.List(job.path)
	if err != nil {
		return streamOutcome{done: true, err: domain.FilesystemError(job.path, err)}
	}
	if len(entries) == 0 {
		logger.Info("no directories in stream", zap.String("path", job.path))
		report := domain.StreamReport{
			Root:    job.root,
			BaseDir: job.base,
			Stream:  job.stream,
			Path:    job.path,
			Skipped: true,
		}
		o.metrics.RecordStream(report)
		return streamOutcome{done: true, report: report}
	}

	report, err := auditor.AuditStream(ctx, job.path)
	report.Root, report.BaseDir, report.Stream = job.root, job.base, job.stream
	return streamOutcome{done: true, report: report, err: err}
}
