package acp

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"
)

type testAgentHandler struct {
	UnimplementedAgentHandler
	cancelled chan SessionID
}

func (h *testAgentHandler) Initialize(ctx context.Context, req InitializeRequest) (InitializeResponse, error) {
	return InitializeResponse{ProtocolVersion: ProtocolVersionLatest, AgentInfo: &Implementation{Name: "test-agent", Version: "0.0.1"}}, nil
}

func (h *testAgentHandler) Authenticate(ctx context.Context, req AuthenticateRequest) (AuthenticateResponse, error) {
	return AuthenticateResponse{}, nil
}

func (h *testAgentHandler) NewSession(ctx context.Context, req NewSessionRequest) (NewSessionResponse, error) {
	return NewSessionResponse{SessionID: SessionID("sess_fixed")}, nil
}

func (h *testAgentHandler) Prompt(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	return PromptResponse{StopReason: StopEndTurn}, nil
}

func (h *testAgentHandler) Cancel(ctx context.Context, note CancelNotification) {
	if h.cancelled != nil {
		h.cancelled <- note.SessionID
	}
}

func (h *testAgentHandler) ExtMethod(ctx context.Context, params ExtMethodParams) (json.RawMessage, error) {
	if params.Method == "echo" {
		return params.Params, nil
	}
	return nil, NewRPCError(ErrMethodNotFound, "")
}

func newAgentTestRig(t *testing.T, handler AgentHandler) *Connection {
	t.Helper()
	ctx := context.Background()
	agentR, driverW := io.Pipe()
	driverR, agentW := io.Pipe()
	NewAgentConnection(ctx, handler, agentW, agentR)
	driver := NewConnection(ctx, driverR, driverW, noopRequest, noopNotification)
	t.Cleanup(func() { driver.Close() })
	return driver
}

func TestNewAgentConnectionInitializeHandshake(t *testing.T) {
	driver := newAgentTestRig(t, &testAgentHandler{})

	raw, err := driver.Request(context.Background(), MethodInitialize, InitializeRequest{ProtocolVersion: ProtocolVersionLatest})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	var resp InitializeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AgentInfo == nil || resp.AgentInfo.Name != "test-agent" {
		t.Errorf("AgentInfo = %+v", resp.AgentInfo)
	}
}

func TestNewAgentConnectionNewSessionAndPrompt(t *testing.T) {
	driver := newAgentTestRig(t, &testAgentHandler{})
	ctx := context.Background()

	raw, err := driver.Request(ctx, MethodSessionNew, NewSessionRequest{Cwd: "/tmp"})
	if err != nil {
		t.Fatalf("session/new: %v", err)
	}
	var sessResp NewSessionResponse
	if err := json.Unmarshal(raw, &sessResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sessResp.SessionID != "sess_fixed" {
		t.Errorf("SessionID = %v", sessResp.SessionID)
	}

	raw, err = driver.Request(ctx, MethodSessionPrompt, PromptRequest{SessionID: sessResp.SessionID, Prompt: []ContentBlock{TextBlock("hi")}})
	if err != nil {
		t.Fatalf("session/prompt: %v", err)
	}
	var promptResp PromptResponse
	if err := json.Unmarshal(raw, &promptResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if promptResp.StopReason != StopEndTurn {
		t.Errorf("StopReason = %v", promptResp.StopReason)
	}
}

func TestNewAgentConnectionUnimplementedMethodIsMethodNotFound(t *testing.T) {
	driver := newAgentTestRig(t, &testAgentHandler{})

	_, err := driver.Request(context.Background(), MethodSessionLoad, LoadSessionRequest{SessionID: "s1", Cwd: "/tmp"})
	rpcErr, ok := err.(*RPCError)
	if !ok || rpcErr.Code != ErrMethodNotFound {
		t.Errorf("expected method_not_found, got %v", err)
	}
}

func TestNewAgentConnectionUnknownMethod(t *testing.T) {
	driver := newAgentTestRig(t, &testAgentHandler{})

	_, err := driver.Request(context.Background(), "session/teleport", map[string]any{})
	rpcErr, ok := err.(*RPCError)
	if !ok || rpcErr.Code != ErrMethodNotFound {
		t.Errorf("expected method_not_found, got %v", err)
	}
}

func TestNewAgentConnectionExtensionMethodPassthrough(t *testing.T) {
	driver := newAgentTestRig(t, &testAgentHandler{})

	raw, err := driver.Request(context.Background(), "_echo", map[string]any{"n": 7})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["n"] != 7 {
		t.Errorf("n = %v", decoded["n"])
	}
}

func TestNewAgentConnectionCancelNotification(t *testing.T) {
	handler := &testAgentHandler{cancelled: make(chan SessionID, 1)}
	driver := newAgentTestRig(t, handler)

	if err := driver.Notify(context.Background(), MethodSessionCancel, CancelNotification{SessionID: "s9"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	select {
	case sid := <-handler.cancelled:
		if sid != "s9" {
			t.Errorf("cancelled session = %v", sid)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Cancel")
	}
}
