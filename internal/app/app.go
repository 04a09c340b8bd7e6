// Package app wires configuration, logging, storage and the audit services
// into the partaudit command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"partaudit/internal/config"
	"partaudit/internal/domain"
	"partaudit/internal/metrics"
	"partaudit/internal/pkg/logger"
	"partaudit/internal/services"
	"partaudit/internal/state"
	"partaudit/internal/ui"
)

const usageLine = "usage: partaudit [flags] <root[,root...]> [base[,base...]] [stream[,stream...]]"

// Options replace the process defaults. Zero values mean os.Stdout, os.Stderr,
// the local filesystem and a logger built from configuration.
type Options struct {
	Stdout     io.Writer
	Stderr     io.Writer
	FileSystem services.FileSystem
	Logger     *zap.Logger
}

// Run executes one partaudit invocation. The report is written before a
// collected failure is returned.
func Run(ctx context.Context, args []string, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	flags := config.NewFlagSet("partaudit")
	flags.SetOutput(opts.Stderr)
	flags.Usage = func() {
		fmt.Fprintln(opts.Stderr, usageLine)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return domain.ArgumentError(err.Error())
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(opts.Stderr, usageLine)
		return domain.ArgumentError("at least one root directory is required")
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		built, _, err := logger.New(logger.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			File:    cfg.Log.File,
			Discard: cfg.UI.Interactive,
		})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = built
	}
	defer func() { _ = log.Sync() }()

	req, extra, err := services.ParseAuditRequest(flags.Args(), cfg.Audit.BaseDirs)
	if err != nil {
		fmt.Fprintln(opts.Stderr, usageLine)
		return err
	}
	if len(extra) > 0 {
		log.Warn("ignoring extra arguments", zap.Strings("args", extra))
	}

	ordering, err := domain.OrderingFor(domain.OrderingMode(cfg.Audit.Ordering))
	if err != nil {
		return domain.ArgumentError(err.Error())
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = services.NewOSFileSystem(cfg.FS.BasePath)
	}

	m := metrics.NewMetrics()
	orchestrator := services.NewOrchestrator(fs,
		services.WithLogger(log),
		services.WithMetrics(m),
		services.WithOrdering(ordering),
		services.WithMaxDepth(cfg.Audit.MaxDepth),
		services.WithConcurrency(cfg.Audit.Concurrency),
		services.WithFailFast(cfg.Audit.FailFast),
		services.WithStrict(cfg.Audit.Strict),
	)

	log.Debug("starting audit",
		zap.Strings("roots", req.Roots),
		zap.Strings("base_dirs", req.BaseDirs),
		zap.Strings("streams", req.Streams),
		zap.String("ordering", cfg.Audit.Ordering),
		zap.Bool("fail_fast", cfg.Audit.FailFast),
		zap.Bool("strict", cfg.Audit.Strict),
	)
	result, auditErr := orchestrator.Audit(ctx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Warn("cannot write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
	}

	if cfg.UI.Interactive {
		return browse(ctx, cfg, orchestrator, req, result, auditErr)
	}

	if err := ui.NewReporter(opts.Stdout, cfg.UI.Theme).Write(result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return auditErr
}

// browse opens the result browser. Its exit status reflects the program, not
// the audit, since the audit may have been rerun inside it.
func browse(ctx context.Context, cfg *config.Config, auditor services.Auditor, req services.AuditRequest, result domain.AuditResult, auditErr error) error {
	appState := state.NewState(cfg.UI)
	appState.SetResult(result)
	model := ui.NewModel(appState, auditor, req)
	if auditErr != nil {
		model = model.WithStatus(fmt.Sprintf("Audit error: %v", auditErr))
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("result browser: %w", err)
	}
	return nil
}
