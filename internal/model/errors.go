package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks a caller-supplied value outside its allowed range.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptyStrip is returned when a strip has no drawable area.
var ErrEmptyStrip = errors.New("strip has no drawable area")

// ValidationError lists every rule a strip currently violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid strip: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid strip (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// RenderingError reports a failure to produce output for a strip.
type RenderingError struct {
	Op  string
	Err error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderingError) Unwrap() error { return e.Err }

// IOError reports a failure to read or write a file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
