package acp

import "github.com/google/uuid"

// SessionID is an opaque session identifier (§3.5).
type SessionID string

// ToolCallID is an opaque tool-call identifier.
type ToolCallID string

// TerminalID is an opaque terminal-handle identifier.
type TerminalID string

// PermissionOptionID is an opaque permission-option identifier.
type PermissionOptionID string

// AuthMethodID is an opaque authentication-method identifier.
type AuthMethodID string

// SessionModeID is an opaque session-mode identifier.
type SessionModeID string

// NewSessionID allocates a fresh session id. Sessions are server-allocated
// (the agent names them in NewSessionResponse), so this is the agent side's
// constructor.
func NewSessionID() SessionID {
	return SessionID("sess_" + uuid.NewString())
}

// NewToolCallID allocates a fresh tool-call id.
func NewToolCallID() ToolCallID {
	return ToolCallID("call_" + uuid.NewString())
}

// NewTerminalID allocates a fresh terminal id.
func NewTerminalID() TerminalID {
	return TerminalID("term_" + uuid.NewString())
}
