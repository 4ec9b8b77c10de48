// Package app implements the application layer for stagehand.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.trai.ch/stagehand/internal/adapters/output"
	"go.trai.ch/stagehand/internal/adapters/overlay"
	"go.trai.ch/stagehand/internal/adapters/snapshot"
	tele "go.trai.ch/stagehand/internal/adapters/telemetry/progrock"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	telemetry    ports.Telemetry
	container    ports.Container
	backend      ports.LoadBackend
	out          io.Writer
}

// RunOptions configures a run.
type RunOptions struct {
	// ConfigPath is the configuration file. Missing files yield the defaults.
	ConfigPath string
	// Quiet raises the log level to warnings.
	Quiet bool
}

type levelSetter interface {
	SetLevel(level domain.LogLevel)
}

type activitySource interface {
	Activity() *tele.Activity
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	telemetry ports.Telemetry,
	container ports.Container,
	backend ports.LoadBackend,
) *App {
	return &App{
		configLoader: loader,
		logger:       logger,
		telemetry:    telemetry,
		container:    container,
		backend:      backend,
		out:          os.Stdout,
	}
}

// WithOutput sets the stream events and snapshots are rendered to.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

func (a *App) setup(opts RunOptions) (domain.Config, error) {
	if opts.Quiet {
		if ls, ok := a.logger.(levelSetter); ok {
			ls.SetLevel(domain.LogLevelWarn)
		}
	}
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// Run executes the steps in order against a fresh lifecycle controller.
//
// A switch step ticks the executor until the switch resolved; preloads keep
// running in the background and are drained after the last step. Failed
// operations do not stop the run; their errors are joined into the result.
// The final snapshot is persisted to the configured state file.
func (a *App) Run(ctx context.Context, args []string, opts RunOptions) error {
	steps, err := ParseSteps(args)
	if err != nil {
		return err
	}
	cfg, err := a.setup(opts)
	if err != nil {
		return err
	}
	store, err := snapshot.NewStore(cfg.StateFile)
	if err != nil {
		return err
	}

	exec := executor.New()
	ctrl, err := lifecycle.New(cfg, a.backend, a.container,
		overlay.NewFade(cfg.FadeIn, cfg.FadeOut), a.logger, a.telemetry, exec)
	if err != nil {
		return zerr.Wrap(err, "failed to create lifecycle controller")
	}
	defer exec.Close()

	renderer := output.New(a.out)
	unsubscribe := ctrl.Subscribe(renderer.Event)
	defer unsubscribe()

	d := &driver{ctrl: ctrl, exec: exec, interval: ctrl.Config().TickInterval}
	var errs []error
	for _, step := range steps {
		if err := d.run(ctx, step); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	errs = append(errs, d.drain(ctx)...)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	snap := ctrl.Snapshot()
	snap.TakenAt = time.Now()
	if err := store.Put(snap); err != nil {
		errs = append(errs, err)
	}

	renderer.Snapshot(snap)
	if src, ok := a.telemetry.(activitySource); ok {
		renderer.Activity(src.Activity().Vertices())
	}
	return errors.Join(errs...)
}

// Status renders the snapshot persisted by the last run.
func (a *App) Status(_ context.Context, opts RunOptions) error {
	cfg, err := a.setup(opts)
	if err != nil {
		return err
	}
	store, err := snapshot.NewStore(cfg.StateFile)
	if err != nil {
		return err
	}
	snap, err := store.Get()
	if err != nil {
		return err
	}
	if snap == nil {
		a.logger.Info("no state recorded in " + store.Path())
		return nil
	}
	output.New(a.out).Snapshot(*snap)
	return nil
}

// Close flushes telemetry and releases the load backend.
func (a *App) Close() error {
	var errs []error
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Close())
	}
	if c, ok := a.backend.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
