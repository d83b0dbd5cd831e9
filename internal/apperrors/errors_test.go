package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	plain := New(CodeAuth, "invalid email or password")
	if got := plain.Error(); got != "[AUTH_ERROR] invalid email or password" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(CodeRepository, "failed to save entry", errors.New("connection refused"))
	if got := wrapped.Error(); got != "[REPOSITORY_ERROR] failed to save entry: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := Wrap(CodeAnalysis, "empty response from AI", nil)
	outer := fmt.Errorf("analyze: %w", inner)

	if !Is(outer, CodeAnalysis) {
		t.Error("Is(outer, CodeAnalysis) = false, want true")
	}
	if Is(outer, CodeRepository) {
		t.Error("Is(outer, CodeRepository) = true, want false")
	}
	if Is(errors.New("plain"), CodeAnalysis) {
		t.Error("Is(plain, CodeAnalysis) = true, want false")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"auth", New(CodeAuth, "x"), CodeAuth},
		{"validation", New(CodeValidation, "x"), CodeValidation},
		{"wrapped", fmt.Errorf("outer: %w", New(CodeDuplicate, "x")), CodeDuplicate},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Errorf("%s: CodeOf() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(New(CodeAuth, "nope")); got != "nope" {
		t.Errorf("MessageOf(coded) = %q", got)
	}
	if got := MessageOf(errors.New("raw failure")); got != "raw failure" {
		t.Errorf("MessageOf(plain) = %q", got)
	}
	if got := MessageOf(nil); got != "" {
		t.Errorf("MessageOf(nil) = %q", got)
	}
}
