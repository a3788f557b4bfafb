package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by cache adapters when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ErrorCode identifies a specific kind of domain error.
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Generation pipeline errors. Each one is terminal for the request
	// that raised it; nothing in the pipeline retries.
	CodeInvalidURL              ErrorCode = "INVALID_URL"
	CodeNoTranscript            ErrorCode = "NO_TRANSCRIPT"
	CodeTranscriptFetchFailed   ErrorCode = "TRANSCRIPT_FETCH_FAILED"
	CodeUnsupportedQuestionType ErrorCode = "UNSUPPORTED_QUESTION_TYPE"
	CodeGenerationService       ErrorCode = "GENERATION_SERVICE_ERROR"
	CodeNoJSONFound             ErrorCode = "NO_JSON_FOUND"
	CodeMalformedOutput         ErrorCode = "MALFORMED_GENERATION_OUTPUT"
	CodeInvalidQuestionShape    ErrorCode = "INVALID_QUESTION_SHAPE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// Pipeline error constructors

func NewInvalidURLError(videoURL string) *DomainError {
	return NewError(CodeInvalidURL, fmt.Sprintf("Could not extract a video ID from URL: %s", videoURL), nil)
}

func NewNoTranscriptError(videoID string) *DomainError {
	return NewError(CodeNoTranscript, fmt.Sprintf("No captions/transcript available for video %s", videoID), nil)
}

func NewTranscriptFetchError(cause error) *DomainError {
	return NewError(CodeTranscriptFetchFailed, "Failed to fetch video transcript", cause)
}

func NewUnsupportedQuestionTypeError(questionType string) *DomainError {
	return NewError(CodeUnsupportedQuestionType, fmt.Sprintf("Unsupported question type: %s", questionType), nil)
}

func NewGenerationServiceError(cause error) *DomainError {
	return NewError(CodeGenerationService, "Generation service call failed", cause)
}

func NewNoJSONFoundError() *DomainError {
	return NewError(CodeNoJSONFound, "No JSON payload found in the model response", nil)
}

func NewMalformedOutputError(cause error) *DomainError {
	return NewError(CodeMalformedOutput, "Model response could not be parsed as JSON", cause)
}

func NewInvalidQuestionShapeError(message string) *DomainError {
	return NewError(CodeInvalidQuestionShape, message, nil)
}
