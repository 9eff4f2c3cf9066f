package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/acpkit/acpcore/acp"
	"github.com/acpkit/acpcore/internal/tracesink"

	"github.com/spf13/cobra"
)

func newClientCmd() *cobra.Command {
	var prompt string
	var cwd string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Spawn a demo ACP agent and drive it through one prompt turn",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if cwd == "" {
				cwd, err = os.Getwd()
				if err != nil {
					return err
				}
			}

			self, err := os.Executable()
			if err != nil {
				self = "acpcore"
			}

			child := exec.Command(self, "agent", "--config", configPath)
			child.Stderr = os.Stderr

			stdin, err := child.StdinPipe()
			if err != nil {
				return err
			}
			stdout, err := child.StdoutPipe()
			if err != nil {
				return err
			}
			if err := child.Start(); err != nil {
				return fmt.Errorf("starting agent: %w", err)
			}
			defer child.Wait()
			defer stdin.Close()

			h := newDemoClient(cwd)

			ctx := context.Background()
			conn := acp.NewClientConnection(ctx, h, stdin, stdout)
			defer conn.Close()

			if cfg.Trace.Enabled {
				sink := tracesink.New(cfg.Trace.Directory, slog.Default())
				go sink.Run(conn.Subscribe())
			}

			return runDemoTurn(ctx, conn, cwd, prompt)
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "hello from acp-client", "prompt text to send")
	cmd.Flags().StringVar(&cwd, "cwd", "", "session working directory (defaults to the current directory)")

	return cmd
}

func runDemoTurn(ctx context.Context, conn *acp.Connection, cwd, prompt string) error {
	initRaw, err := conn.Request(ctx, acp.MethodInitialize, acp.InitializeRequest{
		ProtocolVersion: acp.ProtocolVersionLatest,
		ClientCapabilities: acp.ClientCapabilities{
			FS: &acp.FileSystemCapability{ReadTextFile: true, WriteTextFile: true},
		},
		ClientInfo: &acp.Implementation{Name: "acpcore-demo-client", Version: "0.1.0"},
	})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	var initResp acp.InitializeResponse
	if err := json.Unmarshal(initRaw, &initResp); err != nil {
		return fmt.Errorf("decoding initialize response: %w", err)
	}
	slog.Info("initialized", "protocolVersion", initResp.ProtocolVersion, "agent", initResp.AgentInfo)

	sessRaw, err := conn.Request(ctx, acp.MethodSessionNew, acp.NewSessionRequest{Cwd: cwd})
	if err != nil {
		return fmt.Errorf("session/new: %w", err)
	}
	var sessResp acp.NewSessionResponse
	if err := json.Unmarshal(sessRaw, &sessResp); err != nil {
		return fmt.Errorf("decoding session/new response: %w", err)
	}
	slog.Info("session started", "sessionId", sessResp.SessionID)

	promptRaw, err := conn.Request(ctx, acp.MethodSessionPrompt, acp.PromptRequest{
		SessionID: sessResp.SessionID,
		Prompt:    []acp.ContentBlock{acp.TextBlock(prompt)},
	})
	if err != nil {
		return fmt.Errorf("session/prompt: %w", err)
	}
	var promptResp acp.PromptResponse
	if err := json.Unmarshal(promptRaw, &promptResp); err != nil {
		return fmt.Errorf("decoding session/prompt response: %w", err)
	}
	slog.Info("prompt turn finished", "stopReason", promptResp.StopReason)
	return nil
}

// demoClient is a minimal ACP client: it auto-approves the first
// allow_once permission option and renders session updates to stdout.
// It optionally serves fs/read_text_file and fs/write_text_file against
// the session's own working directory.
type demoClient struct {
	acp.UnimplementedClientHandler

	cwd string
}

func newDemoClient(cwd string) *demoClient {
	return &demoClient{cwd: cwd}
}

func (c *demoClient) RequestPermission(ctx context.Context, req acp.RequestPermissionRequest) (acp.RequestPermissionResponse, error) {
	for _, opt := range req.Options {
		if opt.Kind == acp.PermissionAllowOnce {
			fmt.Println(stylePermission.Render("permission granted:"), opt.Name)
			return acp.RequestPermissionResponse{Outcome: acp.PermissionSelected(opt.ID)}, nil
		}
	}
	return acp.RequestPermissionResponse{Outcome: acp.PermissionCancelled()}, nil
}

func (c *demoClient) SessionUpdate(ctx context.Context, note acp.SessionNotification) {
	switch note.Update.Kind() {
	case "agent_message_chunk":
		if block, ok := note.Update.GetAgentMessageChunk(); ok {
			if content, ok := block.GetText(); ok {
				fmt.Println(styleAgentChunk.Render(content.Text))
			}
		}
	case "user_message_chunk":
		if block, ok := note.Update.GetUserMessageChunk(); ok {
			if content, ok := block.GetText(); ok {
				fmt.Println(styleUserChunk.Render(content.Text))
			}
		}
	case "agent_thought_chunk":
		if block, ok := note.Update.GetAgentThoughtChunk(); ok {
			if content, ok := block.GetText(); ok {
				fmt.Println(styleThought.Render(content.Text))
			}
		}
	case "tool_call":
		if call, ok := note.Update.GetToolCall(); ok {
			fmt.Println(styleToolTitle.Render(string(call.ToolCallID)), call.Title, toolStatusStyle(string(call.Status)).Render(string(call.Status)))
		}
	default:
		slog.Debug("session update", "kind", note.Update.Kind())
	}
}

func (c *demoClient) ReadTextFile(ctx context.Context, req acp.ReadTextFileRequest) (acp.ReadTextFileResponse, error) {
	path := sandboxPath(c.cwd, req.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return acp.ReadTextFileResponse{}, acp.NewRPCError(acp.ErrResourceNotFound, err.Error())
	}
	return acp.ReadTextFileResponse{Content: string(data)}, nil
}

func (c *demoClient) WriteTextFile(ctx context.Context, req acp.WriteTextFileRequest) (acp.WriteTextFileResponse, error) {
	path := sandboxPath(c.cwd, req.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return acp.WriteTextFileResponse{}, acp.NewRPCError(acp.ErrInternal, err.Error())
	}
	if err := os.WriteFile(path, []byte(req.Content), 0o644); err != nil {
		return acp.WriteTextFileResponse{}, acp.NewRPCError(acp.ErrInternal, err.Error())
	}
	return acp.WriteTextFileResponse{}, nil
}

// sandboxPath resolves a relative path against cwd. An absolute path is
// returned unchanged, and nothing keeps the result inside cwd.
func sandboxPath(cwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
