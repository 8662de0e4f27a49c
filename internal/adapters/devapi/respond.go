package devapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
)

// fieldErrors collects validation failures keyed by request field.
type fieldErrors map[string]string

func (f fieldErrors) require(field, value, msg string) {
	if value == "" {
		f[field] = msg
	}
}

func (f fieldErrors) email(field, value string) {
	switch {
	case value == "":
		f[field] = "Email is required"
	case !strings.Contains(value, "@"):
		f[field] = "Please provide a valid email"
	}
}

func (f fieldErrors) password(field, value string) {
	if len(value) < model.MinPasswordLength {
		f[field] = "Password must be at least 8 characters"
	}
}

// write sends a 400 when any field failed and reports whether it did.
func (f fieldErrors) write(w http.ResponseWriter) bool {
	if len(f) == 0 {
		return false
	}
	writeValidation(w, f)
	return true
}

type paramError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// writeValidation answers in the express-validator shape: {message, errors: [{param, msg}]}.
func writeValidation(w http.ResponseWriter, f fieldErrors) {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]paramError, 0, len(keys))
	for _, k := range keys {
		items = append(items, paramError{Param: k, Msg: f[k]})
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": MsgValidationFailed,
		"errors":  items,
	})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}
	writeMessage(w, http.StatusInternalServerError, "Server error")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body, answering 400 itself when it cannot.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
