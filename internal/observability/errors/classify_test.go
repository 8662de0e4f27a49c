package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"
)

type classified struct{}

func (classified) Error() string      { return "classified" }
func (classified) ErrorClass() string { return "http_5xx" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"classifier", fmt.Errorf("wrap: %w", classified{}), "http_5xx"},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"innermost type", fmt.Errorf("outer: %w", &plainErr{}), "errors_plainerr"},
		{"errors.New", goerrors.New("x"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
