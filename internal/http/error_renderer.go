package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"

	apperrors "github.com/target/recruit-admin/internal/errors"
)

const errMsgFixBelow = "Please fix the errors below."

// ErrorRenderer is a function that renders an error template with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is optional when only field errors are reported.
	Err error
	// FieldErrors maps form field to message. Field errors carried by Err are merged in.
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data preserves form values and options for re-rendering.
	Data map[string]any
	// StatusCode defaults to 200 for HTMX compatibility.
	StatusCode int
	// ShowToast also sends the general message as a showToast event.
	ShowToast bool
}

// DetermineErrorStatus maps an error onto the status a page re-render should carry.
// Zero means the caller keeps its default.
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	default:
		return 0
	}
}

// RenderError re-renders a page with a general message and any field errors.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	fields := make(map[string]string, len(opts.FieldErrors))
	maps.Copy(fields, apperrors.GetFields(opts.Err))
	maps.Copy(fields, opts.FieldErrors)
	builder.WithFieldErrors(fields)

	generalError := processError(opts.Err)
	switch {
	case generalError != "":
		builder.WithError(generalError)
	case len(fields) > 0:
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		HTMX(opts.W).Toast(generalError, ToastError)
	}
	if opts.StatusCode != 0 {
		writeHTMLStatus(opts.W, opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the message shown to the admin for err.
func processError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || apperrors.IsTimeout(err):
		return "Request timed out. Please try again."
	case errors.Is(err, context.Canceled) || apperrors.IsCanceled(err):
		return "Request was canceled."
	case apperrors.IsTransport(err):
		return "The backend is unavailable. Please try again."
	case apperrors.IsInternal(err):
		return "An error occurred. Please try again."
	}

	// Validation, conflict and authorization messages come from the backend or local checks.
	if apperrors.GetCode(err) != "" {
		return apperrors.Message(err, "An error occurred. Please try again.")
	}
	return "An error occurred. Please try again."
}
