package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// ResponseError is a non-2xx answer from the backend.
type ResponseError struct {
	StatusCode  int
	Method      string
	Path        string
	Body        []byte
	Message     string
	FieldErrors map[string]string
}

func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// ErrorClass labels the error for metrics.
func (e *ResponseError) ErrorClass() string {
	return fmt.Sprintf("http_%dxx", e.StatusCode/100)
}

// TransportError is a failure to get any response at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorClass labels the error for metrics.
func (e *TransportError) ErrorClass() string { return "transport" }

// DecodeError is a 2xx response whose body did not match the expected shape.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorClass labels the error for metrics.
func (e *DecodeError) ErrorClass() string { return "decode" }

// StatusCode returns the HTTP status carried by err, or 0 when there was no response.
func StatusCode(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsAuthRejected reports whether err is a 401 from the backend.
func IsAuthRejected(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// errorExtractor pulls a message and field errors out of a backend error body.
type errorExtractor struct {
	messagePath     string
	fieldErrorsPath string
}

func validateExpression(name, expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid %s expression %q: %w", name, expr, err)
	}
	return nil
}

func (x errorExtractor) extract(body []byte) (string, map[string]string) {
	if len(body) == 0 {
		return "", nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", nil
	}
	return x.message(doc), x.fields(doc)
}

func (x errorExtractor) message(doc any) string {
	if x.messagePath == "" {
		return ""
	}
	v, err := jmespath.Search(x.messagePath, doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// fields accepts a list of {param|path|field, msg|message} objects or a field -> message object.
func (x errorExtractor) fields(doc any) map[string]string {
	if x.fieldErrorsPath == "" {
		return nil
	}
	v, err := jmespath.Search(x.fieldErrorsPath, doc)
	if err != nil || v == nil {
		return nil
	}

	out := map[string]string{}
	switch typed := v.(type) {
	case []any:
		for _, item := range typed {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field := firstString(obj, "param", "path", "field")
			msg := firstString(obj, "msg", "message")
			if field == "" || msg == "" {
				continue
			}
			// First message per field wins, matching how forms show one error per input.
			if _, seen := out[field]; !seen {
				out[field] = msg
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch mv := typed[k].(type) {
			case string:
				out[k] = mv
			case map[string]any:
				if msg := firstString(mv, "msg", "message"); msg != "" {
					out[k] = msg
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
