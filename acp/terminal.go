package acp

// CreateTerminalRequest asks the client to start a command in a new
// terminal and hand back a handle for polling its output.
type CreateTerminalRequest struct {
	SessionID        SessionID     `json:"sessionId"`
	Command          string        `json:"command"`
	Args             []string      `json:"args,omitempty"`
	Env              []EnvVariable `json:"env,omitempty"`
	Cwd              string        `json:"cwd,omitempty"`
	OutputByteLimit  *uint64       `json:"outputByteLimit,omitempty"`
}

// CreateTerminalResponse carries the new terminal's handle.
type CreateTerminalResponse struct {
	TerminalID TerminalID `json:"terminalId"`
}

// TerminalOutputRequest polls a terminal's buffered output so far.
type TerminalOutputRequest struct {
	SessionID  SessionID  `json:"sessionId"`
	TerminalID TerminalID `json:"terminalId"`
}

// TerminalExitStatus reports how a terminal's command ended, once it has.
type TerminalExitStatus struct {
	ExitCode *uint32 `json:"exitCode,omitempty"`
	Signal   *string `json:"signal,omitempty"`
}

// TerminalOutputResponse carries a terminal's output and, once the
// command has exited, its exit status.
type TerminalOutputResponse struct {
	Output    string               `json:"output"`
	Truncated bool                 `json:"truncated,omitempty"`
	ExitStatus *TerminalExitStatus `json:"exitStatus,omitempty"`
}

// WaitForExitRequest blocks (on the client side) until a terminal's
// command exits.
type WaitForExitRequest struct {
	SessionID  SessionID  `json:"sessionId"`
	TerminalID TerminalID `json:"terminalId"`
}

// WaitForExitResponse carries the command's exit status.
type WaitForExitResponse struct {
	ExitCode *uint32 `json:"exitCode,omitempty"`
	Signal   *string `json:"signal,omitempty"`
}

// KillTerminalRequest asks the client to terminate a running terminal
// command without releasing the terminal handle.
type KillTerminalRequest struct {
	SessionID  SessionID  `json:"sessionId"`
	TerminalID TerminalID `json:"terminalId"`
}

// KillTerminalResponse is empty on success.
type KillTerminalResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// ReleaseTerminalRequest asks the client to free a terminal handle once
// the agent no longer needs it.
type ReleaseTerminalRequest struct {
	SessionID  SessionID  `json:"sessionId"`
	TerminalID TerminalID `json:"terminalId"`
}

// ReleaseTerminalResponse is empty on success.
type ReleaseTerminalResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}
