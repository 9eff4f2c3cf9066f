package acp

import (
	"encoding/json"
	"fmt"
)

// EnvVariable is one entry of a stdio MCP server's environment.
type EnvVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HTTPHeader is one entry of an http/sse MCP server's extra headers.
type HTTPHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StdioMcpServer launches an MCP server as a local subprocess over stdio.
// It is the union's default variant and carries no `type` tag on the wire;
// it is recognized structurally by the presence of `command` (§3.4 shape 1).
type StdioMcpServer struct {
	Name    string        `json:"name"`
	Command string        `json:"command"`
	Args    []string      `json:"args,omitempty"`
	Env     []EnvVariable `json:"env,omitempty"`
	Cwd     string        `json:"cwd,omitempty"`
}

// HTTPMcpServer connects to an MCP server over streamable HTTP.
type HTTPMcpServer struct {
	Name    string       `json:"name"`
	URL     string       `json:"url"`
	Headers []HTTPHeader `json:"headers,omitempty"`
}

// SSEMcpServer connects to an MCP server over HTTP with Server-Sent Events.
type SSEMcpServer struct {
	Name    string       `json:"name"`
	URL     string       `json:"url"`
	Headers []HTTPHeader `json:"headers,omitempty"`
}

// McpServer is the tagged/structural union of §3.4 shape 1: `http` and
// `sse` carry an explicit `type` tag; stdio is untagged and recognized by
// the presence of `command`.
type McpServer struct {
	discriminator string
	stdio         *StdioMcpServer
	http          *HTTPMcpServer
	sse           *SSEMcpServer
}

// NewStdioMcpServer wraps a StdioMcpServer as an McpServer.
func NewStdioMcpServer(v StdioMcpServer) McpServer {
	return McpServer{discriminator: "stdio", stdio: &v}
}

// NewHTTPMcpServer wraps an HTTPMcpServer as an McpServer.
func NewHTTPMcpServer(v HTTPMcpServer) McpServer {
	return McpServer{discriminator: "http", http: &v}
}

// NewSSEMcpServer wraps an SSEMcpServer as an McpServer.
func NewSSEMcpServer(v SSEMcpServer) McpServer {
	return McpServer{discriminator: "sse", sse: &v}
}

// Kind returns "stdio", "http", or "sse".
func (m McpServer) Kind() string { return m.discriminator }

// GetStdio returns the stdio variant and true if that is the held variant.
func (m McpServer) GetStdio() (StdioMcpServer, bool) {
	if m.stdio == nil {
		return StdioMcpServer{}, false
	}
	return *m.stdio, true
}

// GetHTTP returns the http variant and true if that is the held variant.
func (m McpServer) GetHTTP() (HTTPMcpServer, bool) {
	if m.http == nil {
		return HTTPMcpServer{}, false
	}
	return *m.http, true
}

// GetSSE returns the sse variant and true if that is the held variant.
func (m McpServer) GetSSE() (SSEMcpServer, bool) {
	if m.sse == nil {
		return SSEMcpServer{}, false
	}
	return *m.sse, true
}

func (m McpServer) MarshalJSON() ([]byte, error) {
	switch m.discriminator {
	case "stdio":
		return json.Marshal(m.stdio)
	case "http":
		flat := flatten(m.http)
		flat["type"] = "http"
		return json.Marshal(flat)
	case "sse":
		flat := flatten(m.sse)
		flat["type"] = "sse"
		return json.Marshal(flat)
	default:
		return nil, fmt.Errorf("acp: empty McpServer")
	}
}

func (m *McpServer) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type    string `json:"type"`
		Command string `json:"command"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch {
	case probe.Type == "http":
		var v HTTPMcpServer
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*m = McpServer{discriminator: "http", http: &v}
	case probe.Type == "sse":
		var v SSEMcpServer
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*m = McpServer{discriminator: "sse", sse: &v}
	case probe.Command != "":
		var v StdioMcpServer
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*m = McpServer{discriminator: "stdio", stdio: &v}
	default:
		return invalidParams("mcpServer: no type tag and no command key")
	}
	return nil
}
