package app

import (
	"errors"
	"testing"
)

func TestInitError(t *testing.T) {
	cause := errors.New("no tty")
	err := error(&InitError{Component: "backend", Err: cause})

	if got, want := err.Error(), "init backend: no tty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("InitError should unwrap to its cause")
	}

	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "backend" {
		t.Errorf("errors.As failed: %v", err)
	}
}
