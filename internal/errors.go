package internal

import (
	"errors"
	"fmt"
)

// Error kinds callers match with errors.Is
var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrStoreWriteFailure         = errors.New("store write failure")
	ErrAmbiguousMixedSentiment   = errors.New("ambiguous mixed sentiment")
	ErrUnknownBackend            = errors.New("unknown backend")
)

// InputError rejects text before any external call is made
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ClassificationError is returned once the retry budget is spent
type ClassificationError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification error [%s] after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassificationUnavailable
}

// StorageError represents errors talking to a store backend
type StorageError struct {
	Backend   string
	Op        string // "open", "append", "list", "delete", "sessions"
	SessionID string
	Err       error
}

func (e *StorageError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("storage error [%s] %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("storage error [%s] %s %s: %v", e.Backend, e.Op, e.SessionID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ConfigError points at the offending configuration key
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
