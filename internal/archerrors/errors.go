// Package archerrors defines the error-kind taxonomy shared by every
// component, and the mapping from a kind to JSON-RPC and HTTP codes.
package archerrors

import "fmt"

// Kind is one of the error kinds named by the system's error handling design.
type Kind string

const (
	KindIoFailure           Kind = "IoFailure"
	KindParseFailure        Kind = "ParseFailure"
	KindInvalidConfig       Kind = "InvalidConfig"
	KindUnsupportedFileType Kind = "UnsupportedFileType"
	KindTimeout             Kind = "Timeout"
	KindNotFound            Kind = "NotFound"
	KindInternal             Kind = "Internal"
)

// ArchError is the structured error type returned by every tool-facing
// operation; callers never need to infer state from a status code alone.
type ArchError struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *ArchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ArchError) Unwrap() error { return e.cause }

// New builds an ArchError of the given kind.
func New(kind Kind, message string) *ArchError {
	return &ArchError{Kind: kind, Message: message}
}

// Wrap builds an ArchError of the given kind, wrapping cause.
func Wrap(kind Kind, message string, cause error) *ArchError {
	return &ArchError{Kind: kind, Message: message, cause: cause}
}

// WithDetails attaches arbitrary structured detail to the error and returns
// it for chaining.
func (e *ArchError) WithDetails(details map[string]interface{}) *ArchError {
	e.Details = details
	return e
}

// JSONRPCCode returns the JSON-RPC 2.0 error code for this error's kind.
func (e *ArchError) JSONRPCCode() int {
	switch e.Kind {
	case KindTimeout:
		return -32000
	case KindIoFailure, KindParseFailure, KindInvalidConfig, KindUnsupportedFileType, KindNotFound:
		return -32602
	default:
		return -32603
	}
}

// HTTPStatus returns the HTTP status code for this error's kind.
func (e *ArchError) HTTPStatus() int {
	switch e.Kind {
	case KindTimeout:
		return 408
	case KindIoFailure, KindParseFailure, KindInvalidConfig, KindUnsupportedFileType, KindNotFound:
		return 400
	default:
		return 500
	}
}

// As reports whether err is an *ArchError and returns it.
func As(err error) (*ArchError, bool) {
	ae, ok := err.(*ArchError)
	return ae, ok
}
