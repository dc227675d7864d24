package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound is returned when the source directory is missing. Nothing
	// has been touched when it's returned.
	ErrDirectoryNotFound = errors.New("directory not found")

	ErrInvalidOptions = errors.New("invalid batch options")
)

// TransformError is one failed attempt of transforming File.
type TransformError struct {
	File        string
	Attempt     int
	MaxAttempts int
	Err         error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("failed to process '%v' (attempt %d/%d): %v", e.File, e.Attempt, e.MaxAttempts, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// UnknownError is any failure outside of the per-file retry loop, such as failing
// to create the destination directory. It aborts the run.
type UnknownError struct {
	Op  string
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("failed to %v: %v", e.Op, e.Err)
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

type permanentError struct {
	err error
}

func (p permanentError) Error() string {
	return p.err.Error()
}

func (p permanentError) Unwrap() error {
	return p.err
}

// Permanent marks err as not worth retrying. The file is recorded as failed
// after the attempt which returned it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether any error in err's chain was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
