package acp

import (
	"encoding/json"
	"testing"
)

func TestAgentSideDispatcherDecodeRequest(t *testing.T) {
	tests := []struct {
		method string
		params json.RawMessage
	}{
		{MethodInitialize, json.RawMessage(`{"protocolVersion":1}`)},
		{MethodAuthenticate, json.RawMessage(`{"methodId":"oauth"}`)},
		{MethodSessionNew, json.RawMessage(`{"cwd":"/tmp"}`)},
		{MethodSessionLoad, json.RawMessage(`{"sessionId":"s1","cwd":"/tmp"}`)},
		{MethodSessionSetMode, json.RawMessage(`{"sessionId":"s1","modeId":"code"}`)},
		{MethodSessionPrompt, json.RawMessage(`{"sessionId":"s1","prompt":[]}`)},
		{MethodSessionList, json.RawMessage(`{}`)},
		{MethodSessionFork, json.RawMessage(`{"sessionId":"s1"}`)},
		{MethodSessionResume, json.RawMessage(`{"sessionId":"s1"}`)},
		{MethodSessionSetConfigOption, json.RawMessage(`{"sessionId":"s1","optionId":"o","valueId":"v"}`)},
		{MethodSessionSetModel, json.RawMessage(`{"sessionId":"s1","modelId":"m"}`)},
	}

	var disp AgentSideDispatcher
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			decoded, rpcErr := disp.DecodeRequest(tt.method, tt.params)
			if rpcErr != nil {
				t.Fatalf("DecodeRequest(%s): %v", tt.method, rpcErr)
			}
			if decoded.Method != tt.method {
				t.Errorf("Method = %v, want %v", decoded.Method, tt.method)
			}
		})
	}
}

func TestAgentSideDispatcherUnknownMethod(t *testing.T) {
	var disp AgentSideDispatcher
	_, rpcErr := disp.DecodeRequest("session/teleport", json.RawMessage(`{}`))
	if rpcErr == nil || rpcErr.Code != ErrMethodNotFound {
		t.Errorf("expected method_not_found, got %v", rpcErr)
	}
}

func TestAgentSideDispatcherNilParamsIsInvalidParams(t *testing.T) {
	var disp AgentSideDispatcher
	_, rpcErr := disp.DecodeRequest(MethodInitialize, nil)
	if rpcErr == nil || rpcErr.Code != ErrInvalidParams {
		t.Errorf("expected invalid_params, got %v", rpcErr)
	}
}

func TestAgentSideDispatcherExtensionMethod(t *testing.T) {
	var disp AgentSideDispatcher
	decoded, rpcErr := disp.DecodeRequest("_custom/thing", json.RawMessage(`{"x":1}`))
	if rpcErr != nil {
		t.Fatalf("DecodeRequest: %v", rpcErr)
	}
	if decoded.Method != "ext_method" {
		t.Errorf("Method = %v, want ext_method", decoded.Method)
	}
	params, ok := decoded.Params.(ExtMethodParams)
	if !ok {
		t.Fatalf("Params type = %T", decoded.Params)
	}
	if params.Method != "custom/thing" {
		t.Errorf("Method = %v, want custom/thing (underscore stripped)", params.Method)
	}
}

func TestAgentSideDispatcherDecodeNotification(t *testing.T) {
	var disp AgentSideDispatcher
	decoded, rpcErr := disp.DecodeNotification(MethodSessionCancel, json.RawMessage(`{"sessionId":"s1"}`))
	if rpcErr != nil {
		t.Fatalf("DecodeNotification: %v", rpcErr)
	}
	note, ok := decoded.Params.(CancelNotification)
	if !ok || note.SessionID != "s1" {
		t.Errorf("Params = %+v", decoded.Params)
	}
}

func TestAgentSideDispatcherExtensionNotification(t *testing.T) {
	var disp AgentSideDispatcher
	decoded, rpcErr := disp.DecodeNotification("_custom/ping", json.RawMessage(`{}`))
	if rpcErr != nil {
		t.Fatalf("DecodeNotification: %v", rpcErr)
	}
	if decoded.Method != "ext_notification" {
		t.Errorf("Method = %v, want ext_notification", decoded.Method)
	}
}

func TestClientSideDispatcherDecodeRequest(t *testing.T) {
	tests := []struct {
		method string
		params json.RawMessage
	}{
		{MethodSessionRequestPermission, json.RawMessage(`{"sessionId":"s1","toolCall":{"toolCallId":"c1","title":"t"},"options":[]}`)},
		{MethodFsReadTextFile, json.RawMessage(`{"sessionId":"s1","path":"/a"}`)},
		{MethodFsWriteTextFile, json.RawMessage(`{"sessionId":"s1","path":"/a","content":"x"}`)},
		{MethodTerminalCreate, json.RawMessage(`{"sessionId":"s1","command":"ls"}`)},
		{MethodTerminalOutput, json.RawMessage(`{"sessionId":"s1","terminalId":"t1"}`)},
		{MethodTerminalRelease, json.RawMessage(`{"sessionId":"s1","terminalId":"t1"}`)},
		{MethodTerminalWaitForExit, json.RawMessage(`{"sessionId":"s1","terminalId":"t1"}`)},
		{MethodTerminalKill, json.RawMessage(`{"sessionId":"s1","terminalId":"t1"}`)},
	}

	var disp ClientSideDispatcher
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			decoded, rpcErr := disp.DecodeRequest(tt.method, tt.params)
			if rpcErr != nil {
				t.Fatalf("DecodeRequest(%s): %v", tt.method, rpcErr)
			}
			if decoded.Method != tt.method {
				t.Errorf("Method = %v, want %v", decoded.Method, tt.method)
			}
		})
	}
}

func TestClientSideDispatcherUnknownMethod(t *testing.T) {
	var disp ClientSideDispatcher
	_, rpcErr := disp.DecodeRequest("fs/delete_file", json.RawMessage(`{}`))
	if rpcErr == nil || rpcErr.Code != ErrMethodNotFound {
		t.Errorf("expected method_not_found, got %v", rpcErr)
	}
}

func TestClientSideDispatcherDecodeNotification(t *testing.T) {
	var disp ClientSideDispatcher
	decoded, rpcErr := disp.DecodeNotification(MethodSessionUpdate, json.RawMessage(`{"sessionId":"s1","update":`+mustMarshal(t, UserMessageChunkUpdate(TextBlock("hi")))+`}`))
	if rpcErr != nil {
		t.Fatalf("DecodeNotification: %v", rpcErr)
	}
	note, ok := decoded.Params.(SessionNotification)
	if !ok || note.SessionID != "s1" {
		t.Errorf("Params = %+v", decoded.Params)
	}
}

func mustMarshal(t *testing.T, v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}
