// Package common contains shared sentinel errors and small helpers used
// across krsbot components. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
