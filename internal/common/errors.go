package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error kinds surfaced at the boundary.
const (
	KindInputMissing        = "INPUT_MISSING"
	KindExtractionFailed    = "EXTRACTION_FAILED"
	KindCollaboratorFailure = "COLLABORATOR_FAILURE"
	KindConfig              = "CONFIG_ERROR"
	KindInternal            = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInputMissing      = errors.New("no document supplied")
	ErrExtractionFailed  = errors.New("no nutrients extracted from document")
	ErrCollaborator      = errors.New("document collaborator failed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InputMissing is returned before any parsing begins.
func InputMissing(message string) error {
	return NewAppError(KindInputMissing, message, ErrInputMissing)
}

// ExtractionFailed wraps cause (may be nil) as the domain-level failure.
func ExtractionFailed(message string, cause error) error {
	if cause == nil {
		cause = ErrExtractionFailed
	} else {
		cause = fmt.Errorf("%w: %w", ErrExtractionFailed, cause)
	}
	return NewAppError(KindExtractionFailed, message, cause)
}

// CollaboratorFailure translates a loader/OCR error, keeping its text for diagnostics.
func CollaboratorFailure(message string, cause error) error {
	return NewAppError(KindCollaboratorFailure, message, fmt.Errorf("%w: %w", ErrCollaborator, cause))
}

// KindOf classifies err into one of the Kind constants.
func KindOf(err error) string {
	var ae *AppError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputMissing):
		return KindInputMissing
	case errors.Is(err, ErrExtractionFailed),
		errors.Is(err, context.DeadlineExceeded):
		return KindExtractionFailed
	case errors.Is(err, ErrCollaborator):
		return KindCollaboratorFailure
	case errors.As(err, &ae):
		return ae.Code
	}
	return KindInternal
}

// GRPCStatus maps a domain error onto a gRPC status error.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	switch KindOf(err) {
	case KindInputMissing:
		return InvalidArgumentError(err.Error())
	case KindExtractionFailed:
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return InternalError(err.Error())
	}
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}
