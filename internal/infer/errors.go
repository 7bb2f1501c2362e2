package infer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an expected lookup miss: missing key, unknown alias,
	// missing parameter.
	ErrNotFound = errors.New("not found")
	// ErrNoDefault is returned for parameters without a default value. It
	// matches ErrNotFound as well.
	ErrNoDefault = fmt.Errorf("no default value: %w", ErrNotFound)
	// ErrInvalidOperation reports an operation the value does not support,
	// such as indexing a number.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInferenceFailed is the single "cannot infer" signal: recursion,
	// self imports and module build failures all end up here.
	ErrInferenceFailed = errors.New("inference failed")
)
