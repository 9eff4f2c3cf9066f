package acp

import "encoding/json"

// ProtocolVersion is a non-negative integer identifying the wire schema
// version. Version 1 is current; version 0 is the legacy version, which a
// peer may still send encoded as a JSON string rather than a number.
type ProtocolVersion int

const (
	ProtocolVersionLegacy ProtocolVersion = 0
	ProtocolVersionLatest ProtocolVersion = 1
)

func (v ProtocolVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(v))
}

func (v *ProtocolVersion) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = ProtocolVersion(n)
		return nil
	}
	// Legacy encoding: a numeric string. Any string is treated as the
	// legacy version per §3.5.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ProtocolVersionLegacy
		return nil
	}
	return invalidParams("protocolVersion")
}

// Implementation identifies a peer's name and version, used in the
// handshake for diagnostics only.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Title   string `json:"title,omitempty"`
}

// FileSystemCapability declares which filesystem operations a client
// exposes to the agent.
type FileSystemCapability struct {
	ReadTextFile  bool `json:"readTextFile,omitempty"`
	WriteTextFile bool `json:"writeTextFile,omitempty"`
}

// ClientCapabilities declares optional capabilities a client exposes.
type ClientCapabilities struct {
	FS       *FileSystemCapability `json:"fs,omitempty"`
	Terminal bool                  `json:"terminal,omitempty"`
	Meta     map[string]any        `json:"_meta,omitempty"`
}

// PromptCapabilities declares which content-block kinds an agent accepts
// in a prompt turn, beyond plain text which is always accepted.
type PromptCapabilities struct {
	Image           bool `json:"image,omitempty"`
	Audio           bool `json:"audio,omitempty"`
	EmbeddedContext bool `json:"embeddedContext,omitempty"`
}

// McpCapabilities declares which MCP server transports an agent can
// connect to on a session's behalf.
type McpCapabilities struct {
	HTTP bool `json:"http,omitempty"`
	SSE  bool `json:"sse,omitempty"`
}

// SessionCapabilities is currently empty on the wire; it exists as an
// extension point (the teacher's own definition carries no fields either).
type SessionCapabilities struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// AgentCapabilities declares optional capabilities an agent exposes.
type AgentCapabilities struct {
	LoadSession bool                `json:"loadSession,omitempty"`
	Prompt      PromptCapabilities  `json:"promptCapabilities,omitempty"`
	Mcp         McpCapabilities     `json:"mcpCapabilities,omitempty"`
	Session     SessionCapabilities `json:"sessionCapabilities,omitempty"`
	Meta        map[string]any      `json:"_meta,omitempty"`
}

// InitializeRequest is the client's handshake request.
type InitializeRequest struct {
	ProtocolVersion     ProtocolVersion    `json:"protocolVersion"`
	ClientCapabilities  ClientCapabilities `json:"clientCapabilities,omitempty"`
	ClientInfo          *Implementation    `json:"clientInfo,omitempty"`
	Meta                map[string]any     `json:"_meta,omitempty"`
}

// InitializeResponse is the agent's handshake reply.
type InitializeResponse struct {
	ProtocolVersion    ProtocolVersion    `json:"protocolVersion"`
	AgentCapabilities  AgentCapabilities  `json:"agentCapabilities,omitempty"`
	AgentInfo          *Implementation    `json:"agentInfo,omitempty"`
	AuthMethods        []AuthMethod       `json:"authMethods,omitempty"`
	Meta               map[string]any     `json:"_meta,omitempty"`
}

// AuthMethod describes one way a client may authenticate with the agent.
type AuthMethod struct {
	ID          AuthMethodID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
}

// AuthenticateRequest asks the agent to authenticate using a previously
// advertised method.
type AuthenticateRequest struct {
	MethodID AuthMethodID   `json:"methodId"`
	Meta     map[string]any `json:"_meta,omitempty"`
}

// AuthenticateResponse is empty on success; failure is carried as a
// JSON-RPC error with code ErrAuthRequired.
type AuthenticateResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}
