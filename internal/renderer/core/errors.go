package core

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by grid, layer and screen operations.
var (
	// ErrOutOfBounds indicates a position outside the addressed grid.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidDimensions indicates a non-positive width or height, or an
	// area too large to address.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrLayerNotFound indicates a layer that is not attached to the screen.
	ErrLayerNotFound = errors.New("layer not found")
)

// BoundsError describes an access outside a grid.
type BoundsError struct {
	Pos  Position
	Size Size
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("position %s outside %s grid", e.Pos, e.Size)
}

// Unwrap returns ErrOutOfBounds so callers can use errors.Is.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// CheckSize returns ErrInvalidDimensions unless both dimensions are positive
// and their product fits in an int.
func CheckSize(size Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDimensions, size)
	}
	if size.Width > math.MaxInt/size.Height {
		return fmt.Errorf("%w: %s overflows the cell count", ErrInvalidDimensions, size)
	}
	return nil
}
