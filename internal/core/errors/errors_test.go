package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNoInput, "no source files found")
		if err.Error() != "[NO_INPUT] no source files found" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected token")
		err := Wrap(original, CodeParseFailed, "parse failed")
		expected := "[PARSE_FAILED] parse failed: unexpected token"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := New(CodeParseFailed, "parse failed")
		err = AddContext(err, CtxPath, "a.cs")
		err = AddContext(err, CtxOperation, "parse")
		expected := "[PARSE_FAILED] parse failed (operation=parse, path=a.cs)"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("scan: %w", New(CodeNoEndpoints, "no endpoints"))
		if !IsCode(err, CodeNoEndpoints) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
		if IsCode(err, CodeNoInput) {
			t.Error("expected IsCode to reject other codes")
		}
		if Code(err) != CodeNoEndpoints {
			t.Errorf("expected code %s, got %s", CodeNoEndpoints, Code(err))
		}
	})

	t.Run("AddContextOnPlainError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxPath, "x")
		if !IsCode(err, CodeInternal) {
			t.Error("plain errors should be wrapped as internal")
		}
	})

	t.Run("UserMessage", func(t *testing.T) {
		err := AddContext(Wrap(errors.New("eof"), CodeParseFailed, "cannot parse file"), CtxPath, "Program.cs")
		if got := UserMessage(err); got != "cannot parse file: Program.cs" {
			t.Errorf("unexpected user message %q", got)
		}
	})
}
