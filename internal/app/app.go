// Package app wires configuration, the compositing screen, the terminal
// backend, scene scripts and the file watcher into the tessera program.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/tessera/internal/config"
	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
	"github.com/dshills/tessera/internal/renderer/screen"
	"github.com/dshills/tessera/internal/scene"
	"github.com/dshills/tessera/internal/watcher"
)

// Application owns one screen and drives it from terminal and file events.
type Application struct {
	mu sync.Mutex

	cfg       config.Config
	logger    *Logger
	logCloser io.Closer

	backend  backend.Backend
	buffered *backend.BufferedBackend

	// Owned by the event loop while running.
	screen    *screen.Screen
	runner    *scene.Runner
	demoLayer *grid.Layer

	running atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// Overrides are applied after the file and environment, typically
	// from command line flags.
	Overrides []config.Option

	// Logger replaces the logger built from the logging settings.
	Logger *Logger
}

// New loads the configuration and sets up logging.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Overrides...)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{cfg: cfg}

	if opts.Logger != nil {
		app.logger = opts.Logger
		app.logCloser = io.NopCloser(nil)
	} else {
		logger, closer, err := OpenLogger(cfg.Logging)
		if err != nil {
			return nil, &InitError{Component: "logging", Err: err}
		}
		app.logger = logger
		app.logCloser = closer
	}

	return app, nil
}

// SetBackend sets the display backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Config returns the loaded configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Close releases the log file, if any.
func (app *Application) Close() error {
	return app.logCloser.Close()
}

// Run initializes the backend, draws the scene and processes events until
// the user quits or ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}

	app.buffered = backend.NewBufferedBackend(b)
	if err := app.buffered.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.buffered.Shutdown()

	if !app.buffered.HasTrueColor() && app.cfg.Screen.TrueColor {
		app.logger.Warn("terminal does not report true color support; colors are approximated")
	}

	presenter := backend.NewGridPresenter(app.buffered)
	if app.cfg.Screen.CursorVisible {
		origin := core.Pos(0, 0)
		presenter.SetCursor(&origin)
	}
	defer presenter.Detach()

	filler := core.EmptyCell().WithBackground(app.cfg.Screen.BackgroundColor())
	scr, err := screen.New(app.screenSize(), presenter, screen.WithFiller(filler))
	if err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	app.screen = scr
	app.runner = scene.NewRunner(scr,
		scene.WithLogger(app.logger.WithComponent("scene")),
		scene.WithInstructionLimit(app.cfg.Scene.InstructionLimit),
	)

	if err := app.loadScene(ctx); err != nil {
		if !app.cfg.Scene.Watch {
			return err
		}
		app.logger.Error("scene: %v", err)
	}
	if err := app.screen.Display(); err != nil {
		return err
	}

	var w *watcher.Watcher
	if app.cfg.Scene.Watch {
		w, err = watcher.New(watcher.WithDebounce(time.Duration(app.cfg.Scene.DebounceMs) * time.Millisecond))
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		defer w.Close()
		if err := w.Watch(app.cfg.Scene.Path); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		app.logger.Info("watching %s", app.cfg.Scene.Path)
	}

	return app.eventLoop(ctx, w)
}

// screenSize picks the configured size, falling back to the backend's
// size for dimensions left at zero.
func (app *Application) screenSize() core.Size {
	width, height := app.buffered.Size()
	if app.cfg.Screen.Width > 0 {
		width = app.cfg.Screen.Width
	}
	if app.cfg.Screen.Height > 0 {
		height = app.cfg.Screen.Height
	}
	return core.SizeOf(max(width, 1), max(height, 1))
}

// loadScene clears the screen and draws the configured scene, or the
// built-in demo when none is configured.
func (app *Application) loadScene(ctx context.Context) error {
	if app.demoLayer != nil {
		_ = app.screen.RemoveLayer(app.demoLayer)
		app.demoLayer = nil
	}
	app.screen.Clear()

	if app.cfg.Scene.Path == "" {
		layer, err := DrawDemo(app.screen)
		if err != nil {
			return err
		}
		app.demoLayer = layer
		return nil
	}

	start := time.Now()
	err := app.runner.Run(ctx, app.cfg.Scene.Path)
	app.logger.Debug("scene %s ran in %s (%d calls, %d layers)",
		app.cfg.Scene.Path, time.Since(start), app.runner.Calls(), len(app.runner.LayerIDs()))
	return err
}
