package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(NoRawData, "no rawData folder found in /mnt/data/sample", nil)

	msg := err.Error()
	if !strings.Contains(msg, "NO_RAW_DATA") {
		t.Errorf("Expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "no rawData folder") {
		t.Errorf("Expected message text, got %q", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := New(CommandFailed, "rsync failed", cause)

	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("Expected cause in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestSuggestedFixes(t *testing.T) {
	err := New(ToolMissing, "lbzip2 not found", nil)
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("Expected suggested fixes for TOOL_MISSING")
	}
	if err.SuggestedFixes[0].Command != "btt doctor" {
		t.Errorf("Unexpected fix: %+v", err.SuggestedFixes[0])
	}

	if fixes := GetSuggestedFixes(UserAborted); fixes != nil {
		t.Errorf("Expected no fixes for USER_ABORTED, got %v", fixes)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(PathMissing, "missing sources", nil).
		WithDetails([]string{"./sampleA", "./sampleB"})
	if err.Details == nil {
		t.Error("Expected details to be set")
	}
}
