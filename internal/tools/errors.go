// File: internal/tools/errors.go
package tools

// ErrorCode is the machine-readable error type carried inside a failure
// envelope. Using a dedicated type keeps the taxonomy closed: only these
// constants can appear on the wire.
type ErrorCode string

const (
	// -- Argument validation --
	ErrCodeInvalidArgs  ErrorCode = "invalid_args"
	ErrCodeInvalidJSON  ErrorCode = "invalid_json"
	ErrCodeMissingLabel ErrorCode = "missing_label"
	ErrCodeMissingBox   ErrorCode = "missing_box"
	ErrCodeMissingKey   ErrorCode = "missing_key"
	ErrCodeEmptyText    ErrorCode = "empty_text"

	// -- Geometry --
	ErrCodeInvalidBox ErrorCode = "invalid_box"

	// -- Capability surface --
	ErrCodeInvalidKey ErrorCode = "invalid_key"
	// ErrCodeCaptureFailed and ErrCodeActionFailed report a capability
	// failure (browser gone, dispatch refused). They are surfaced to the
	// model like any other tool error so the loop keeps running.
	ErrCodeCaptureFailed ErrorCode = "capture_failed"
	ErrCodeActionFailed  ErrorCode = "action_failed"

	// -- Protocol --
	ErrCodeUnknownTool      ErrorCode = "unknown_tool"
	ErrCodeTooManyToolCalls ErrorCode = "too_many_tool_calls"
)
