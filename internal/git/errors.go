package git

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing repository, commit or path.
	ErrNotFound = errors.New("not found")
	// ErrBackendIO wraps failures reading or writing repository data.
	ErrBackendIO = errors.New("backend i/o")
	// ErrInvalidEncoding reports input that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

func ioError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendIO, err)
}
