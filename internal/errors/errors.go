// Package errors defines the stable error codes the btt commands exit
// with, plus suggested fixes shown to the operator.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// PathMissing indicates a supplied source path does not exist
	PathMissing ErrorCode = "PATH_MISSING"
	// DestInvalid indicates the destination is not a directory
	DestInvalid ErrorCode = "DEST_INVALID"
	// NotAcquisition indicates a directory failed the fingerprint check
	NotAcquisition ErrorCode = "NOT_ACQUISITION"
	// NoRawData indicates the directory has no rawData folder
	NoRawData ErrorCode = "NO_RAW_DATA"
	// NoRecipe indicates no recipe file was found
	NoRecipe ErrorCode = "NO_RECIPE"
	// RecipeInvalid indicates the recipe file could not be parsed
	RecipeInvalid ErrorCode = "RECIPE_INVALID"
	// ToolMissing indicates a required external tool is not installed
	ToolMissing ErrorCode = "TOOL_MISSING"
	// CommandFailed indicates an external command exited non-zero
	CommandFailed ErrorCode = "COMMAND_FAILED"
	// UserAborted indicates the user declined a confirmation prompt
	UserAborted ErrorCode = "USER_ABORTED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
}

// BttError represents a btt error with code, message, and suggestions
type BttError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a BttError with the fixes registered for its code.
func New(code ErrorCode, message string, cause error) *BttError {
	return &BttError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *BttError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BttError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *BttError) WithDetails(details interface{}) *BttError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NoRawData: {
		{
			Command:     "btt summarise",
			Description: "List which directories here are acquisitions",
		},
	},
	NotAcquisition: {
		{
			Command:     "btt summarise",
			Description: "List which directories here are acquisitions",
		},
	},
	ToolMissing: {
		{
			Command:     "btt doctor",
			Description: "Check which external tools are installed",
		},
	},
	RecipeInvalid: {
		{
			Command:     "btt recipe",
			Description: "Show what could be read from the recipe file",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
