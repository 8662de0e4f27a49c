package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/target/recruit-admin/internal/apiclient"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "application not found",
			},
			want: "application not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeTransport,
				Message: "backend unavailable",
				Cause:   errors.New("connection refused"),
			},
			want: "backend unavailable: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("Wrap() lost its cause")
	}
	if Wrap(nil, ErrCodeInternal, "x") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "Email is invalid")
	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "email" {
		t.Errorf("Field = %v, want email", err.Field)
	}
	if got := GetFields(err)["email"]; got != "Email is invalid" {
		t.Errorf("Fields[email] = %q", got)
	}
}

func TestValidationFields(t *testing.T) {
	if ValidationFields("x", nil) != nil {
		t.Fatalf("ValidationFields with no fields should be nil")
	}

	src := map[string]string{"password": "too short"}
	err := ValidationFields("Please fix the errors below.", src)
	src["password"] = "mutated"
	if err.Fields["password"] != "too short" {
		t.Errorf("Fields should be copied, got %q", err.Fields["password"])
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"not found", NotFound("x"), IsNotFound},
		{"conflict", Conflict("x"), IsConflict},
		{"validation", Validation("x"), IsValidation},
		{"unauthorized", Unauthorized("x"), IsUnauthorized},
		{"forbidden", Forbidden("x"), IsForbidden},
		{"internal", Internal("x"), IsInternal},
		{"wrapped", fmt.Errorf("outer: %w", Forbidden("x")), IsForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.is(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
		})
	}

	if IsNotFound(errors.New("plain")) {
		t.Errorf("plain errors must not match")
	}
}

func TestGetCodeAndMessage(t *testing.T) {
	if got := GetCode(Conflict("taken")); got != ErrCodeConflict {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v", got)
	}
	if got := Message(errors.New("plain"), "fallback"); got != "fallback" {
		t.Errorf("Message(plain) = %v", got)
	}
	if got := Message(Validation("bad input"), "fallback"); got != "bad input" {
		t.Errorf("Message(validation) = %v", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Wrap(errors.New("dial"), ErrCodeTransport, "x"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFromAPI(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantMsg   string
		wantField string
	}{
		{
			name: "validation with fields",
			err: &apiclient.ResponseError{
				StatusCode:  http.StatusBadRequest,
				Message:     "Validation failed",
				FieldErrors: map[string]string{"email": "Email already in use"},
			},
			wantCode:  ErrCodeValidation,
			wantMsg:   "Validation failed",
			wantField: "email",
		},
		{
			name:     "unauthorized",
			err:      &apiclient.ResponseError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"},
			wantCode: ErrCodeUnauthorized,
			wantMsg:  "Invalid token",
		},
		{
			name:     "not found without message",
			err:      &apiclient.ResponseError{StatusCode: http.StatusNotFound},
			wantCode: ErrCodeNotFound,
			wantMsg:  "Not Found",
		},
		{
			name:     "server error",
			err:      &apiclient.ResponseError{StatusCode: http.StatusBadGateway, Message: "upstream"},
			wantCode: ErrCodeInternal,
			wantMsg:  "upstream",
		},
		{
			name:     "transport",
			err:      &apiclient.TransportError{Method: http.MethodGet, Path: "/api/admin/me", Err: errors.New("refused")},
			wantCode: ErrCodeTransport,
			wantMsg:  "backend unavailable",
		},
		{
			name:     "decode",
			err:      &apiclient.DecodeError{Method: http.MethodGet, Path: "/api/admin/me", Err: errors.New("bad json")},
			wantCode: ErrCodeInternal,
			wantMsg:  "unexpected response from backend",
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("get: %w", context.DeadlineExceeded),
			wantCode: ErrCodeTimeout,
			wantMsg:  "backend request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAPI(tt.err)
			var appErr *AppError
			if !errors.As(got, &appErr) {
				t.Fatalf("FromAPI() = %T, want *AppError", got)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", appErr.Code, tt.wantCode)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMsg)
			}
			if tt.wantField != "" {
				if _, ok := appErr.Fields[tt.wantField]; !ok {
					t.Errorf("Fields missing %q: %v", tt.wantField, appErr.Fields)
				}
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("FromAPI() should keep the original error in the chain")
			}
		})
	}

	if FromAPI(nil) != nil {
		t.Errorf("FromAPI(nil) should be nil")
	}
	plain := errors.New("plain")
	if !errors.Is(FromAPI(plain), plain) || GetCode(FromAPI(plain)) != "" {
		t.Errorf("unknown errors should pass through unchanged")
	}
}
