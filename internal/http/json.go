package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/target/recruit-admin/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError writes err as JSON, deriving status and code from its AppError category.
// Field messages are included when present.
func WriteAppError(w http.ResponseWriter, err error) {
	code := string(apperrors.GetCode(err))
	if code == "" {
		code = string(apperrors.ErrCodeInternal)
	}
	body := map[string]any{
		"error":   code,
		"message": apperrors.Message(err, "An unexpected error occurred"),
	}
	if fields := apperrors.GetFields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	WriteJSON(w, apperrors.HTTPStatus(err), body)
}
