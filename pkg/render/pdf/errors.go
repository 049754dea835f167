package pdf

import (
	"errors"
	"fmt"
)

// ErrRender marks a failure to produce document bytes. It aborts the export.
var ErrRender = errors.New("render failure")

// errMissingSource is recovered locally by starting from a blank page.
var errMissingSource = errors.New("source document unavailable")

type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
