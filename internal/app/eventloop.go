package app

import (
	"context"
	"errors"

	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/watcher"
)

// eventLoop serializes every screen mutation on the calling goroutine.
// Terminal input and file changes arrive over channels.
func (app *Application) eventLoop(ctx context.Context, w *watcher.Watcher) error {
	done := make(chan struct{})
	defer close(done)
	input := app.startInputPolling(done)

	var fileEvents <-chan watcher.Event
	var fileErrors <-chan error
	if w != nil {
		fileEvents = w.Events()
		fileErrors = w.Errors()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-input:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ctx, ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}

		case ev, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			app.handleFileEvent(ctx, ev)

		case err, ok := <-fileErrors:
			if !ok {
				fileErrors = nil
				continue
			}
			app.logger.Warn("watcher: %v", err)
		}

		if _, err := app.screen.Refresh(); err != nil {
			return err
		}
	}
}

// startInputPolling forwards backend events to the returned channel until
// the backend shuts down or done is closed.
func (app *Application) startInputPolling(done <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event, 16)

	go func() {
		defer close(events)
		for {
			// PollEvent is blocking. Shutting the backend down unblocks it
			// with an EventNone.
			ev := app.buffered.PollEvent()
			if ev.Type == backend.EventNone {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	return events
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventResize:
		return app.handleResize(ctx, ev)
	default:
		return nil
	}
}

// handleKeyEvent quits on q, Escape or Ctrl-C and redraws on Ctrl-L.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		if ev.Rune == 'q' || ev.Rune == 'Q' {
			return ErrQuit
		}
	case backend.KeyCtrlL:
		app.logger.Debug("full redraw requested")
		app.buffered.Sync()
	}
	return nil
}

// handleResize follows the terminal size unless the screen size is fixed,
// then redraws the scene for the new dimensions.
func (app *Application) handleResize(ctx context.Context, ev backend.Event) error {
	if app.cfg.Screen.HasFixedSize() {
		return nil
	}
	size := app.screenSize()
	if size == app.screen.Size() {
		return nil
	}
	if err := app.screen.Resize(size); err != nil {
		return err
	}
	app.logger.Debug("resized to %s (event %dx%d)", size, ev.Width, ev.Height)
	app.reload(ctx)
	return nil
}

// handleFileEvent reruns the scene after its file changed.
func (app *Application) handleFileEvent(ctx context.Context, ev watcher.Event) {
	if ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpCreate) {
		app.logger.Warn("scene %s was removed", ev.Path)
		return
	}
	app.logger.Info("scene %s changed, reloading", ev.Path)
	app.reload(ctx)
}

// reload redraws the scene, logging rather than returning script errors so
// that a broken edit does not end the session.
func (app *Application) reload(ctx context.Context) {
	if err := app.loadScene(ctx); err != nil {
		app.logger.Error("scene: %v", err)
	}
	app.screen.MarkDirty()
}
