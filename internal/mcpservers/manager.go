// Package mcpservers launches and supervises the MCP servers a session
// connects on an agent's behalf, and exposes their tools for the agent
// loop to call.
package mcpservers

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/acpkit/acpcore/acp"
)

// Server is one connected MCP server: its session plus the subprocess
// handle, when it has one.
type Server struct {
	Name    string
	session *mcp.ClientSession
	cmd     *exec.Cmd
	tools   map[string]*mcp.Tool
}

// Manager holds every MCP server connected through it.
type Manager struct {
	mu      sync.Mutex
	servers map[string]*Server
}

// NewManager returns an empty Manager; servers are added with Connect.
func NewManager() *Manager {
	return &Manager{servers: make(map[string]*Server)}
}

// Connect launches or dials every server in specs and adds it to the
// manager, failing (and tearing down what it already started) if any one
// of them does not come up within launchTimeout.
func (m *Manager) Connect(ctx context.Context, specs []acp.McpServer, launchTimeout time.Duration) error {
	var connected []*Server
	for _, spec := range specs {
		srv, err := connectOne(ctx, spec, launchTimeout)
		if err != nil {
			for _, s := range connected {
				s.close()
			}
			return err
		}
		connected = append(connected, srv)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, srv := range connected {
		m.servers[srv.Name] = srv
	}
	return nil
}

func connectOne(ctx context.Context, spec acp.McpServer, launchTimeout time.Duration) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "acpcore", Version: "0.1.0"}, nil)

	switch spec.Kind() {
	case "stdio":
		stdio, _ := spec.GetStdio()
		return connectStdio(ctx, client, stdio)
	case "http":
		http, _ := spec.GetHTTP()
		return connectStreamable(ctx, client, http.Name, http.URL, http.Headers)
	case "sse":
		sse, _ := spec.GetSSE()
		return connectStreamable(ctx, client, sse.Name, sse.URL, sse.Headers)
	default:
		return nil, fmt.Errorf("mcpservers: unrecognized server kind %q", spec.Kind())
	}
}

func connectStdio(ctx context.Context, client *mcp.Client, spec acp.StdioMcpServer) (*Server, error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Stderr = os.Stderr
	if spec.Cwd != "" {
		cmd.Dir = spec.Cwd
	}
	cmd.Env = os.Environ()
	for _, ev := range spec.Env {
		cmd.Env = append(cmd.Env, ev.Name+"="+ev.Value)
	}

	session, err := client.Connect(ctx, mcp.NewCommandTransport(cmd))
	if err != nil {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		return nil, fmt.Errorf("mcpservers: launch %q: %w", spec.Name, err)
	}

	srv := &Server{Name: spec.Name, session: session, cmd: cmd}
	if err := srv.discoverTools(ctx); err != nil {
		srv.close()
		return nil, err
	}
	return srv, nil
}

func connectStreamable(ctx context.Context, client *mcp.Client, name, url string, headers []acp.HTTPHeader) (*Server, error) {
	transport := mcp.NewStreamableClientTransport(url, nil)
	session, err := client.Connect(ctx, transport)
	if err != nil {
		return nil, fmt.Errorf("mcpservers: connect %q: %w", name, err)
	}

	srv := &Server{Name: name, session: session}
	if err := srv.discoverTools(ctx); err != nil {
		srv.close()
		return nil, err
	}
	return srv, nil
}

func (s *Server) discoverTools(ctx context.Context) error {
	s.tools = make(map[string]*mcp.Tool)
	params := &mcp.ListToolsParams{}
	for {
		page, err := s.session.ListTools(ctx, params)
		if err != nil {
			return fmt.Errorf("mcpservers: list tools on %q: %w", s.Name, err)
		}
		for _, tool := range page.Tools {
			s.tools[tool.Name] = tool
		}
		if page.NextCursor == "" {
			return nil
		}
		params.Cursor = page.NextCursor
	}
}

func (s *Server) close() {
	if s.session != nil {
		s.session.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}

// ToolRef names one tool by its owning server and its name on that server.
type ToolRef struct {
	Server string
	Tool   string
}

// Tools lists every tool every connected server has advertised.
func (m *Manager) Tools() []ToolRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	var refs []ToolRef
	for name, srv := range m.servers {
		for toolName := range srv.tools {
			refs = append(refs, ToolRef{Server: name, Tool: toolName})
		}
	}
	return refs
}

// CallTool invokes one tool on the named server and returns the
// concatenated text of its result content, mirroring how a single-turn
// agent loop consumes a tool result.
func (m *Manager) CallTool(ctx context.Context, server, tool string, args map[string]any) (string, error) {
	m.mu.Lock()
	srv, ok := m.servers[server]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("mcpservers: unknown server %q", server)
	}

	result, err := srv.session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("mcpservers: call %q on %q: %w", tool, server, err)
	}

	var out string
	for _, block := range result.Content {
		if text, ok := block.(*mcp.TextContent); ok {
			out += text.Text
		}
	}
	return out, nil
}

// Close tears down every connected server, stopping subprocesses where
// the manager started one.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, srv := range m.servers {
		srv.close()
	}
	m.servers = make(map[string]*Server)
}
