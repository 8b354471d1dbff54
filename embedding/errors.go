package embedding

import (
	"errors"
	"fmt"
)

// EmbeddingError represents errors that can occur during embedding operations
type EmbeddingError struct {
	Op      string
	Err     error
	Code    string
	Message string
}

// Error implements the error interface
func (e *EmbeddingError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("embedding.%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("embedding.%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an EmbeddingError of the same kind
func (e *EmbeddingError) Is(target error) bool {
	t, ok := target.(*EmbeddingError)
	return ok && t.Code != "" && t.Code == e.Code
}

// Error codes surfaced by embedding models
const (
	ErrCodeConnection            = "Connection"
	ErrCodeServerUnavailable     = "ServerUnavailable"
	ErrCodeRateLimit             = "RateLimit"
	ErrCodeAuthorization         = "Authorization"
	ErrCodeBadRequest            = "BadRequest"
	ErrCodeCredentialsValidation = "CredentialsValidation"
	ErrCodeInvoke                = "Invoke"
)

// Sentinels for errors.Is; each matches every error of its code.
var (
	ErrConnection            = &EmbeddingError{Code: ErrCodeConnection, Message: "connection error"}
	ErrServerUnavailable     = &EmbeddingError{Code: ErrCodeServerUnavailable, Message: "server unavailable"}
	ErrRateLimit             = &EmbeddingError{Code: ErrCodeRateLimit, Message: "rate limit exceeded"}
	ErrAuthorization         = &EmbeddingError{Code: ErrCodeAuthorization, Message: "authorization failed"}
	ErrBadRequest            = &EmbeddingError{Code: ErrCodeBadRequest, Message: "bad request"}
	ErrCredentialsValidation = &EmbeddingError{Code: ErrCodeCredentialsValidation, Message: "credentials validation failed"}
	ErrInvoke                = &EmbeddingError{Code: ErrCodeInvoke, Message: "invoke error"}
)

// ErrMissingKey marks a response body that lacks an expected key
var ErrMissingKey = errors.New("missing key")

// NewEmbeddingError creates a new EmbeddingError
func NewEmbeddingError(op string, err error, code, message string) *EmbeddingError {
	return &EmbeddingError{
		Op:      op,
		Err:     err,
		Code:    code,
		Message: message,
	}
}

// MissingKey returns an error wrapping ErrMissingKey for the given key
func MissingKey(key string) error {
	return fmt.Errorf("%w: %q", ErrMissingKey, key)
}

// CodeOf returns the code of the first EmbeddingError in err's chain
func CodeOf(err error) string {
	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

func ErrConnectionFailed(op string, err error) error {
	return NewEmbeddingError(op, err, ErrCodeConnection, err.Error())
}

func ErrUnavailable(op string, err error, message string) error {
	return NewEmbeddingError(op, err, ErrCodeServerUnavailable, message)
}

func ErrRateLimitExceeded(op string, message string) error {
	return NewEmbeddingError(op, nil, ErrCodeRateLimit, message)
}

func ErrUnauthorized(op string, message string) error {
	return NewEmbeddingError(op, nil, ErrCodeAuthorization, message)
}

func ErrInvalidRequest(op string, message string) error {
	return NewEmbeddingError(op, nil, ErrCodeBadRequest, message)
}

func ErrInvalidCredentials(op string, err error, message string) error {
	return NewEmbeddingError(op, err, ErrCodeCredentialsValidation, message)
}

func ErrInvokeFailed(op string, err error, message string) error {
	return NewEmbeddingError(op, err, ErrCodeInvoke, message)
}
