package core

import (
	"errors"
	"fmt"
)

var (
	ErrResourceMismatch = errors.New("vertex data does not match the allocated buffer")
	ErrVertexLayout     = errors.New("invalid vertex layout")
	ErrReleased         = errors.New("geometry holds no GPU resources")
	ErrNoIntersection   = errors.New("ray does not intersect the plane")
)

// MismatchError reports a vertex replacement whose length differs from the
// allocation it was created with.
type MismatchError struct {
	ID   ID
	Kind Kind
	Want int
	Got  int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("geometry %d (%s): replacing %d floats with %d: %v", e.ID, e.Kind, e.Want, e.Got, ErrResourceMismatch)
}

func (e *MismatchError) Unwrap() error { return ErrResourceMismatch }
