package embedding

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEmbeddingError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "Same code",
			err:    ErrUnauthorized("Invoke", "bad key"),
			target: ErrAuthorization,
			want:   true,
		},
		{
			name:   "Different code",
			err:    ErrUnauthorized("Invoke", "bad key"),
			target: ErrRateLimit,
			want:   false,
		},
		{
			name:   "Wrapped with fmt",
			err:    fmt.Errorf("error embedding document 0: %w", ErrRateLimitExceeded("Invoke", "slow down")),
			target: ErrRateLimit,
			want:   true,
		},
		{
			name:   "Cause stays reachable",
			err:    ErrUnavailable("Invoke", MissingKey("data"), "bad response"),
			target: ErrMissingKey,
			want:   true,
		},
		{
			name:   "Plain error",
			err:    errors.New("boom"),
			target: ErrInvoke,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestEmbeddingError_Error(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Message only",
			err:  ErrInvalidRequest("Invoke", "only one text is supported"),
			want: "embedding.Invoke: only one text is supported",
		},
		{
			name: "Message equal to cause",
			err:  ErrConnectionFailed("Invoke", cause),
			want: "embedding.Invoke: dial tcp: connection refused",
		},
		{
			name: "Message and cause",
			err:  ErrInvalidCredentials("ValidateCredentials", cause, "invalid credentials"),
			want: "embedding.ValidateCredentials: invalid credentials: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrapped: %w", ErrInvokeFailed("Invoke", nil, "x"))); got != ErrCodeInvoke {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeInvoke)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf() = %q, want empty", got)
	}
}

func TestMissingKey(t *testing.T) {
	err := MissingKey("total_tokens")
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("MissingKey() = %v, want ErrMissingKey in chain", err)
	}
	if !strings.Contains(err.Error(), `"total_tokens"`) {
		t.Errorf("MissingKey() = %q, want key name", err.Error())
	}
}

func TestErrorMapping_Transform(t *testing.T) {
	mapping := ErrorMapping{
		{Code: ErrCodeConnection, Causes: []error{ErrConnection}},
		{Code: ErrCodeServerUnavailable, Causes: []error{ErrServerUnavailable}},
		{Code: ErrCodeRateLimit, Causes: []error{ErrRateLimit}},
		{Code: ErrCodeAuthorization, Causes: []error{ErrAuthorization}},
		{Code: ErrCodeBadRequest, Causes: []error{ErrMissingKey}},
	}

	rateLimited := ErrRateLimitExceeded("Invoke", "slow down")

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantSame bool
	}{
		{
			name:     "Already mapped error is returned as is",
			err:      rateLimited,
			wantCode: ErrCodeRateLimit,
			wantSame: true,
		},
		{
			name:     "Missing key becomes bad request",
			err:      MissingKey("error"),
			wantCode: ErrCodeBadRequest,
		},
		{
			name:     "Server unavailable wrapping a missing key keeps its code",
			err:      ErrUnavailable("Invoke", MissingKey("data"), "bad response"),
			wantCode: ErrCodeServerUnavailable,
		},
		{
			name:     "Unmapped embedding error is returned as is",
			err:      ErrInvalidCredentials("Invoke", nil, "server_url is required"),
			wantCode: ErrCodeCredentialsValidation,
		},
		{
			name:     "Unknown error becomes invoke error",
			err:      errors.New("boom"),
			wantCode: ErrCodeInvoke,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapping.Transform("Invoke", tt.err)
			if code := CodeOf(got); code != tt.wantCode {
				t.Errorf("Transform() code = %q, want %q", code, tt.wantCode)
			}
			if tt.wantSame && got != tt.err {
				t.Errorf("Transform() = %v, want the original error", got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Transform() = %v, lost the original error", got)
			}
		})
	}

	if got := mapping.Transform("Invoke", nil); got != nil {
		t.Errorf("Transform(nil) = %v, want nil", got)
	}
}

func TestErrorMapping_Lookup(t *testing.T) {
	mapping := ErrorMapping{
		{Code: ErrCodeBadRequest, Causes: []error{ErrMissingKey}},
	}

	if code, ok := mapping.Lookup(MissingKey("usage")); !ok || code != ErrCodeBadRequest {
		t.Errorf("Lookup() = %q, %v, want %q, true", code, ok, ErrCodeBadRequest)
	}
	if _, ok := mapping.Lookup(errors.New("other")); ok {
		t.Error("Lookup() matched an unrelated error")
	}
	if _, ok := mapping.Lookup(nil); ok {
		t.Error("Lookup(nil) matched")
	}
}
