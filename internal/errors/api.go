package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/target/recruit-admin/internal/apiclient"
)

// FromAPI maps backend client errors onto AppError instances:
//   - 400/422 -> Validation (with field messages)
//   - 401 -> Unauthorized, 403 -> Forbidden
//   - 404 -> NotFound, 409 -> Conflict
//   - transport failures -> Transport
//   - undecodable 2xx bodies -> Internal
//   - context timeouts/cancellations -> Timeout/Canceled
//
// Errors that are already AppErrors, and nil, are returned unchanged.
func FromAPI(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "backend request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "backend request canceled")
	}

	var respErr *apiclient.ResponseError
	if errors.As(err, &respErr) {
		return fromResponse(respErr)
	}

	var transportErr *apiclient.TransportError
	if errors.As(err, &transportErr) {
		return Wrap(err, ErrCodeTransport, "backend unavailable")
	}

	var decodeErr *apiclient.DecodeError
	if errors.As(err, &decodeErr) {
		return Wrap(err, ErrCodeInternal, "unexpected response from backend")
	}

	return err
}

func fromResponse(e *apiclient.ResponseError) *AppError {
	out := &AppError{Message: e.Message, Cause: e}
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		out.Code = ErrCodeValidation
		if len(e.FieldErrors) > 0 {
			out.Fields = e.FieldErrors
		}
	case http.StatusUnauthorized:
		out.Code = ErrCodeUnauthorized
	case http.StatusForbidden:
		out.Code = ErrCodeForbidden
	case http.StatusNotFound:
		out.Code = ErrCodeNotFound
	case http.StatusConflict:
		out.Code = ErrCodeConflict
	default:
		out.Code = ErrCodeInternal
	}
	if out.Message == "" {
		out.Message = http.StatusText(e.StatusCode)
	}
	return out
}
