package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Match with errors.Is.
var (
	ErrFilesystem = errors.New("filesystem error")
	ErrPathFormat = errors.New("path format error")
	ErrArgument   = errors.New("argument error")
)

// AuditError ties a failure kind to the path it happened on.
type AuditError struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Path is the filesystem path being processed, if any.
	Path string

	// Message is a short human-readable description.
	Message string

	// Err is the wrapped underlying error.
	Err error
}

func (e *AuditError) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuditError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func FilesystemError(path string, err error) *AuditError {
	return &AuditError{Kind: ErrFilesystem, Path: path, Err: err}
}

func PathFormatError(path, message string) *AuditError {
	return &AuditError{Kind: ErrPathFormat, Path: path, Message: message}
}

func ArgumentError(message string) *AuditError {
	return &AuditError{Kind: ErrArgument, Message: message}
}

// IsAuditError checks if an error is an AuditError and returns it.
func IsAuditError(err error) (*AuditError, bool) {
	var auditErr *AuditError
	if errors.As(err, &auditErr) {
		return auditErr, true
	}
	return nil, false
}
