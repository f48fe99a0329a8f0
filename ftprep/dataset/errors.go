package dataset

import (
	"errors"
	"fmt"
)

// Common error types used across the dataset pipeline
var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrLengthMismatch    = errors.New("columns and max tokens differ in length")
	ErrEmptyTable        = errors.New("empty table")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrInvalidPosition   = errors.New("invalid fix position")
)

// MissingColumnError names a required column absent from the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("we need a column named %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
