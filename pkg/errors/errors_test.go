package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFilter, "invalid filter %q", "codec:nope:1")

	if err.Code != ErrCodeInvalidFilter {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidFilter)
	}
	if err.Message != `invalid filter "codec:nope:1"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch muxing %s", "m-1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	want := "NETWORK_ERROR: fetch muxing m-1: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeNotFound, "gone"), ErrCodeNotFound, true},
		{"Mismatch", New(ErrCodeNotFound, "gone"), ErrCodeNetwork, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "slow")), ErrCodeTimeout, true},
		{"Plain", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnhandledType, "x")); got != ErrCodeUnhandledType {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidField, "no such field")); got != "no such field" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
