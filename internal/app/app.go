package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/wmbr/proc-opt/internal/adapter/instance"
	"github.com/wmbr/proc-opt/internal/adapter/report"
	"github.com/wmbr/proc-opt/internal/config"
	"github.com/wmbr/proc-opt/internal/platform/logger"
	"github.com/wmbr/proc-opt/internal/shared"
	"github.com/wmbr/proc-opt/internal/solver"
)

// App wires application components.
type App struct {
	cfg   config.Config
	base  *slog.Logger
	log   *slog.Logger
	files []string
	out   io.Writer
}

// New loads configuration, applies command line overrides and builds the
// logger. Reports go to out, logs and usage to errOut.
func New(args []string, out, errOut io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, shared.Wrap(err, "load config")
	}

	fs := flag.NewFlagSet("procopt", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: procopt [flags] FILE...")
		fs.PrintDefaults()
	}
	workers := fs.Int("workers", cfg.Solver.Workers, "number of instances solved in parallel")
	algorithm := fs.String("algorithm", cfg.Solver.Algorithm, "schrage, preemptive or all")
	format := fs.String("format", cfg.Output.Format, "report format: text or yaml")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, shared.MarkKind(err, shared.KindValidation)
	}

	cfg.Solver.Workers = *workers
	cfg.Solver.Algorithm = *algorithm
	cfg.Output.Format = *format
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, shared.Validationf("no instance files given")
	}

	base := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "procopt",
		Console:      errOut,
	})

	return &App{
		cfg:   cfg,
		base:  base,
		log:   base.With(slog.String("run_id", uuid.NewString())),
		files: fs.Args(),
		out:   out,
	}, nil
}

// Run loads every instance, solves the batch and writes the report.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	a.log.Info("starting", slog.Int("files", len(a.files)), slog.String("algorithm", a.cfg.Solver.Algorithm))

	insts := make([]instance.Instance, 0, len(a.files))
	for _, path := range a.files {
		inst, err := instance.Load(path)
		if err != nil {
			level := slog.LevelError
			if shared.IsNotFound(err) || shared.IsValidation(err) {
				// bad input, not a failure of the tool
				level = slog.LevelWarn
			}
			a.log.Log(ctx, level, "load instance", slog.String("path", path), slog.Any("err", err))
			return err
		}
		a.log.Debug("instance loaded", slog.String("path", path), slog.Int("jobs", len(inst.Jobs)))
		insts = append(insts, inst)
	}

	pool, err := solver.New(a.cfg.Solver.Workers, solver.Algorithm(a.cfg.Solver.Algorithm), a.log)
	if err != nil {
		return err
	}
	results, err := pool.Solve(ctx, insts)
	if err != nil {
		a.log.Error("solve", slog.Any("err", err))
		return err
	}

	reports := make([]report.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, report.Build(r))
	}
	if err := report.Write(a.out, report.Format(a.cfg.Output.Format), reports...); err != nil {
		return shared.Wrap(err, "write report")
	}

	a.log.Info("done", slog.Int("instances", len(results)), slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Close releases the log file, if any.
func (a *App) Close() error {
	return logger.Close(a.base)
}
