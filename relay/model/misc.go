package model

import (
	"errors"
	"fmt"
	"strings"
)

type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    any    `json:"code"`
}

// ErrorWithStatusCode is a provider failure carried as a Go error.
type ErrorWithStatusCode struct {
	Error      `json:"error"`
	StatusCode int    `json:"status_code"`
	Provider   string `json:"provider,omitempty"`
}

// ProviderError 让 ErrorWithStatusCode 满足 error 接口
type ProviderError struct {
	*ErrorWithStatusCode
}

func (e *ProviderError) Error() string {
	if e.ErrorWithStatusCode == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func NewProviderError(provider string, statusCode int, message string, code any) *ProviderError {
	return &ProviderError{&ErrorWithStatusCode{
		Error: Error{
			Message: message,
			Type:    "upstream_error",
			Code:    code,
		},
		StatusCode: statusCode,
		Provider:   provider,
	}}
}

// ErrorWrapper wraps a local failure (encode, transport) in the provider error shape.
func ErrorWrapper(provider string, err error, code string, statusCode int) *ProviderError {
	return &ProviderError{&ErrorWithStatusCode{
		Error: Error{
			Message: err.Error(),
			Type:    "campaign_studio_error",
			Code:    code,
		},
		StatusCode: statusCode,
		Provider:   provider,
	}}
}

// EntityNotFoundSignature marks a rejected or expired primary credential.
const EntityNotFoundSignature = "entity was not found"

func IsCredentialInvalid(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), EntityNotFoundSignature)
}

func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
