package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/acpkit/acpcore/acp"
	"github.com/acpkit/acpcore/internal/config"
	"github.com/acpkit/acpcore/internal/mcpservers"
	"github.com/acpkit/acpcore/internal/tracesink"

	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run a minimal ACP agent over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			h := newDemoAgent(cfg)

			ctx := context.Background()
			conn := acp.NewAgentConnection(ctx, h, os.Stdout, os.Stdin)
			h.bind(conn)

			if cfg.Trace.Enabled {
				sink := tracesink.New(cfg.Trace.Directory, slog.Default())
				go sink.Run(conn.Subscribe())
			}

			<-conn.Done()
			h.mcp.Close()
			return nil
		},
	}

	return cmd
}

// demoAgent is a trivial ACP agent: it speaks the handshake and prompt
// flow honestly but has no model behind it. It exists to give the
// protocol core a real peer to exercise end to end.
type demoAgent struct {
	acp.UnimplementedAgentHandler

	cfg config.Config
	mcp *mcpservers.Manager

	mu       sync.Mutex
	sessions map[acp.SessionID]string // sessionID -> cwd

	ready chan struct{}
	conn  *acp.Connection
}

func newDemoAgent(cfg config.Config) *demoAgent {
	return &demoAgent{
		cfg:      cfg,
		mcp:      mcpservers.NewManager(),
		sessions: make(map[acp.SessionID]string),
		ready:    make(chan struct{}),
	}
}

// bind attaches the Connection the agent was wired onto, so Prompt can
// push session/update notifications on it. Must be called exactly once,
// right after NewAgentConnection returns and before any inbound message
// could have been dispatched.
func (a *demoAgent) bind(conn *acp.Connection) {
	a.conn = conn
	close(a.ready)
}

func (a *demoAgent) Initialize(ctx context.Context, req acp.InitializeRequest) (acp.InitializeResponse, error) {
	version := req.ProtocolVersion
	if version > acp.ProtocolVersionLatest {
		version = acp.ProtocolVersionLatest
	}

	return acp.InitializeResponse{
		ProtocolVersion: version,
		AgentCapabilities: acp.AgentCapabilities{
			LoadSession: true,
			Prompt: acp.PromptCapabilities{
				Image: false,
				Audio: false,
			},
			Mcp: acp.McpCapabilities{HTTP: true, SSE: true},
		},
		AgentInfo: &acp.Implementation{Name: "acpcore-demo-agent", Version: "0.1.0"},
	}, nil
}

func (a *demoAgent) Authenticate(ctx context.Context, req acp.AuthenticateRequest) (acp.AuthenticateResponse, error) {
	return acp.AuthenticateResponse{}, acp.NewRPCError(acp.ErrAuthRequired, "demo agent offers no auth methods")
}

func (a *demoAgent) NewSession(ctx context.Context, req acp.NewSessionRequest) (acp.NewSessionResponse, error) {
	sessionID := acp.NewSessionID()

	if len(req.McpServers) > 0 {
		launchCtx, cancel := context.WithTimeout(ctx, a.cfg.McpLaunchTimeout())
		defer cancel()
		if err := a.mcp.Connect(launchCtx, req.McpServers, a.cfg.McpLaunchTimeout()); err != nil {
			return acp.NewSessionResponse{}, acp.NewRPCError(acp.ErrInternal, "connecting mcp servers: "+err.Error())
		}
	}

	a.mu.Lock()
	a.sessions[sessionID] = req.Cwd
	a.mu.Unlock()

	return acp.NewSessionResponse{SessionID: sessionID}, nil
}

func (a *demoAgent) Prompt(ctx context.Context, req acp.PromptRequest) (acp.PromptResponse, error) {
	a.mu.Lock()
	_, known := a.sessions[req.SessionID]
	a.mu.Unlock()
	if !known {
		return acp.PromptResponse{}, acp.NewRPCError(acp.ErrInvalidParams, "unknown sessionId")
	}

	var echoed string
	for _, block := range req.Prompt {
		if text, ok := block.GetText(); ok {
			echoed += text.Text
		}
	}

	select {
	case <-ctx.Done():
		return acp.PromptResponse{StopReason: acp.StopCancelled}, nil
	case <-a.ready:
	}

	note := acp.SessionNotification{
		SessionID: req.SessionID,
		Update:    acp.AgentMessageChunkUpdate(acp.TextBlock(echoed)),
	}
	if err := a.conn.Notify(ctx, acp.MethodSessionUpdate, note); err != nil {
		return acp.PromptResponse{}, acp.NewRPCError(acp.ErrInternal, "sending session/update: "+err.Error())
	}

	return acp.PromptResponse{StopReason: acp.StopEndTurn}, nil
}

func (a *demoAgent) Cancel(ctx context.Context, note acp.CancelNotification) {
	slog.Debug("session cancelled", "sessionId", note.SessionID)
}
