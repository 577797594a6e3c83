package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tessera/internal/config"
	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/core"
)

func newTestApp(t *testing.T, overrides ...config.Option) *Application {
	t.Helper()
	app, err := New(Options{Overrides: overrides, Logger: NullLogger})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// startApp runs app on b in the background and returns a function that
// waits for Run to return.
func startApp(t *testing.T, app *Application, b backend.Backend) (context.CancelFunc, func() error) {
	t.Helper()
	if err := app.SetBackend(b); err != nil {
		t.Fatalf("SetBackend() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	wait := func() error {
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
			return nil
		}
	}
	t.Cleanup(func() {
		cancel()
	})
	return cancel, wait
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func writeScene(t *testing.T, path, code string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestNew(t *testing.T) {
	app := newTestApp(t)
	if app.IsRunning() {
		t.Error("new application should not be running")
	}
	if app.Config().Logging.Level == "" {
		t.Error("configuration should carry defaults")
	}
	if app.Logger() != NullLogger {
		t.Error("Logger() should return the injected logger")
	}
}

func TestNew_ConfigError(t *testing.T) {
	_, err := New(Options{ConfigPath: "tessera.ini", Logger: NullLogger})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("expected config InitError, got %v", err)
	}

	_, err = New(Options{Overrides: []config.Option{config.WithLogLevel("loud")}, Logger: NullLogger})
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestNew_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tessera.log")
	app, err := New(Options{Overrides: []config.Option{config.WithLogFile(path)}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	app.Logger().Info("hello")
	if err := app.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q, want it to contain 'hello'", data)
	}
}

func TestRun_NoBackend(t *testing.T) {
	app := newTestApp(t)
	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() = %v, want ErrNoBackend", err)
	}
}

func TestRun_Demo(t *testing.T) {
	app := newTestApp(t)
	b := backend.NewNullBackend(60, 5)
	_, wait := startApp(t, app, b)

	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	if got := b.Text(0); strings.TrimSpace(got) != "" {
		t.Errorf("row 0 = %q, want the blank top margin", got)
	}
	if got := b.Text(1); !strings.HasPrefix(got, " "+DemoFirstRow) {
		t.Errorf("row 1 = %q, want prefix %q", got, " "+DemoFirstRow)
	}
	if got := b.Text(2); !strings.HasPrefix(got, " "+DemoSecondRow) {
		t.Errorf("row 2 = %q, want prefix %q", got, " "+DemoSecondRow)
	}

	if margin := b.GetCell(0, 1); !margin.Style.Background.Equals(core.ColorTransparent) {
		t.Errorf("left margin background = %v, want unset", margin.Style.Background)
	}
	plain := b.GetCell(1, 1)
	if !plain.Style.Background.Equals(core.ColorBlack) {
		t.Errorf("row 1 background = %v, want black", plain.Style.Background)
	}
	overlaid := b.GetCell(1, 2)
	if want := core.RGB(25, 25, 100); !overlaid.Style.Background.Equals(want) {
		t.Errorf("row 2 background = %v, want %v", overlaid.Style.Background, want)
	}
	if overlaid.Rune != 'L' || !overlaid.Style.Foreground.Equals(core.ColorWhite) {
		t.Errorf("row 2 glyph = %q %v, want white 'L'", overlaid.Rune, overlaid.Style.Foreground)
	}

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'})
	if err := wait(); err != nil {
		t.Errorf("Run() = %v", err)
	}
	if app.IsRunning() {
		t.Error("application should have stopped")
	}
}

func TestRun_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   backend.Event
	}{
		{"q", backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'}},
		{"escape", backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}},
		{"ctrl-c", backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlC, Mod: backend.ModCtrl}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			b := backend.NewNullBackend(50, 3)
			_, wait := startApp(t, app, b)

			waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })
			b.PostEvent(tt.ev)
			if err := wait(); err != nil {
				t.Errorf("Run() = %v", err)
			}
		})
	}
}

func TestRun_ContextCancel(t *testing.T) {
	app := newTestApp(t)
	b := backend.NewNullBackend(50, 3)
	cancel, wait := startApp(t, app, b)

	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })
	cancel()
	if err := wait(); err != nil {
		t.Errorf("Run() = %v", err)
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	app := newTestApp(t)
	b := backend.NewNullBackend(50, 3)
	cancel, wait := startApp(t, app, b)
	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	if err := app.SetBackend(b); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("SetBackend() while running = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	_ = wait()
}

func TestRun_CtrlLRedraws(t *testing.T) {
	app := newTestApp(t)
	b := backend.NewNullBackend(50, 3)
	_, wait := startApp(t, app, b)
	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlL, Mod: backend.ModCtrl})
	waitFor(t, "sync", func() bool { return b.SyncCount() > 0 })

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	_ = wait()
}

func TestRun_Resize(t *testing.T) {
	app := newTestApp(t)
	b := backend.NewNullBackend(50, 3)
	_, wait := startApp(t, app, b)
	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	b.Resize(30, 3)
	waitFor(t, "redraw after resize", func() bool {
		return b.Text(2) == " "+DemoSecondRow[:29]
	})
	if got := b.Text(1); got != " "+DemoFirstRow+"  " {
		t.Errorf("row 1 = %q, want %q", got, " "+DemoFirstRow+"  ")
	}

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	_ = wait()
}

func TestRun_FixedSize(t *testing.T) {
	app := newTestApp(t, config.WithSize(10, 2), config.WithBackground("#102030"))
	b := backend.NewNullBackend(20, 3)
	_, wait := startApp(t, app, b)
	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	if got := b.Text(1); got != " "+DemoFirstRow[:9]+strings.Repeat(" ", 10) {
		t.Errorf("row 1 = %q", got)
	}
	if got := b.GetCell(0, 0).Style.Background; !got.Equals(core.RGB(0x10, 0x20, 0x30)) {
		t.Errorf("margin background = %v, want the configured background", got)
	}
	if got := b.GetCell(15, 0).Style.Background; !got.Equals(core.ColorTransparent) {
		t.Errorf("cell outside the screen has background %v, want cleared", got)
	}

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	_ = wait()
}

func TestRun_Scene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.lua")
	writeScene(t, path, `put(1, 1, "v1") layer{w=2, h=1, bg="#FF000080"}`)

	app := newTestApp(t, config.WithScene(path))
	b := backend.NewNullBackend(10, 2)
	_, wait := startApp(t, app, b)
	waitFor(t, "first frame", func() bool { return b.ShowCount() > 0 })

	if got := b.Text(0); !strings.HasPrefix(got, "v1") {
		t.Errorf("row 0 = %q, want prefix 'v1'", got)
	}

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	_ = wait()
}

func TestRun_SceneError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.lua")
	writeScene(t, path, `error("broken")`)

	app := newTestApp(t, config.WithScene(path))
	if err := app.SetBackend(backend.NewNullBackend(10, 2)); err != nil {
		t.Fatal(err)
	}
	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Run() = %v, want the script error", err)
	}
}

func TestRun_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.lua")
	writeScene(t, path, `put(1, 1, "v1")`)

	app := newTestApp(t,
		config.WithScene(path),
		config.WithWatch(true),
		func(c *config.Config) { c.Scene.DebounceMs = 10 },
	)
	b := backend.NewNullBackend(10, 2)
	_, wait := startApp(t, app, b)
	waitFor(t, "first scene", func() bool { return strings.HasPrefix(b.Text(0), "v1") })

	writeScene(t, path, `put(1, 2, "v2")`)
	waitFor(t, "reloaded scene", func() bool { return strings.HasPrefix(b.Text(1), "v2") })
	if got := b.Text(0); strings.HasPrefix(got, "v1") {
		t.Errorf("row 0 = %q, previous run should be cleared", got)
	}

	// A broken edit is logged and the session continues.
	writeScene(t, path, `error("oops")`)
	writeScene(t, path, `put(1, 1, "v3")`)
	waitFor(t, "recovered scene", func() bool { return strings.HasPrefix(b.Text(0), "v3") })

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	if err := wait(); err != nil {
		t.Errorf("Run() = %v", err)
	}
}
