package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRegion marks an export whose target has no pixels.
	ErrEmptyRegion = errors.New("export region is empty")
	// ErrTooLarge marks an export whose raster exceeds the size limit.
	ErrTooLarge = errors.New("export region is too large")
	// ErrBusy marks an export requested while another is in flight.
	ErrBusy = errors.New("another export is in progress")
)

// Format names an export target.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// Error is a structured export failure. No output accompanies it.
type Error struct {
	Format Format
	Reason error
}

func (e *Error) Error() string { return fmt.Sprintf("export %s: %v", e.Format, e.Reason) }

func (e *Error) Unwrap() error { return e.Reason }

func fail(f Format, err error) error { return &Error{Format: f, Reason: err} }
