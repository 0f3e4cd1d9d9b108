package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeStrategyError = "STRATEGY_ERROR"
	CodeAPIError      = "API_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfig        = "CONFIG_ERROR"
	CodeSynthesis     = "SYNTHESIS_ERROR"
	CodeInvalidOutput = "INVALID_SYNTHESIS_OUTPUT"
)

type StrategyError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *StrategyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}

func (e *StrategyError) WithCause(cause error) *StrategyError {
	e.Cause = cause
	return e
}

type APIError struct {
	*StrategyError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		StrategyError: &StrategyError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*StrategyError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		StrategyError: &StrategyError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// ConfigError reports missing server secrets. Missing holds the variable
// names for logging only; Error() never includes them.
type ConfigError struct {
	*StrategyError
	Missing []string
}

func NewConfigError(missing []string) *ConfigError {
	return &ConfigError{
		StrategyError: &StrategyError{
			Message:    "Server configuration error",
			Code:       CodeConfig,
			StatusCode: 500,
			Context: map[string]any{
				"missing": missing,
			},
		},
		Missing: missing,
	}
}

type SynthesisError struct {
	*StrategyError
	Provider string
}

func NewSynthesisError(provider string, cause error) *SynthesisError {
	return &SynthesisError{
		StrategyError: &StrategyError{
			Message:    "failed to get a valid response from the AI model",
			Code:       CodeSynthesis,
			StatusCode: 500,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}

type InvalidOutputError struct {
	*StrategyError
	Reason string
}

func NewInvalidOutputError(reason string) *InvalidOutputError {
	return &InvalidOutputError{
		StrategyError: &StrategyError{
			Message:    fmt.Sprintf("invalid synthesis output: %s", reason),
			Code:       CodeInvalidOutput,
			StatusCode: 500,
			Context: map[string]any{
				"reason": reason,
			},
		},
		Reason: reason,
	}
}

// StatusCoder is implemented by every error in this package, including the
// wrapper types through their embedded *StrategyError.
type StatusCoder interface {
	HTTPStatus() int
}

func (e *StrategyError) HTTPStatus() int {
	return e.StatusCode
}

// StatusCode extracts the HTTP status carried by err, defaulting to 500.
func StatusCode(err error) int {
	var sc StatusCoder
	if stderrors.As(err, &sc) {
		if status := sc.HTTPStatus(); status > 0 {
			return status
		}
	}
	return 500
}
