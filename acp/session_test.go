package acp

import (
	"encoding/json"
	"testing"
)

func TestNewSessionRequestRoundTrip(t *testing.T) {
	req := NewSessionRequest{
		Cwd:        "/home/user/project",
		McpServers: []McpServer{NewStdioMcpServer(StdioMcpServer{Name: "fs", Command: "mcp-fs"})},
	}
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got NewSessionRequest
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Cwd != req.Cwd || len(got.McpServers) != 1 {
		t.Errorf("got %+v, want %+v", got, req)
	}
}

func TestConfigOptionValuesGroupedRoundTrip(t *testing.T) {
	values := NewGroupedConfigOptionValues([]ConfigOptionGroup{
		{Group: "models", Options: []ConfigOptionChoice{{ID: "gpt", Label: "GPT"}}},
	})
	raw, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ConfigOptionValues
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.IsGrouped() {
		t.Error("expected grouped values")
	}
	groups, ok := got.Grouped()
	if !ok || len(groups) != 1 || groups[0].Group != "models" {
		t.Errorf("groups = %+v", groups)
	}
}

func TestConfigOptionValuesUngroupedRoundTrip(t *testing.T) {
	values := NewUngroupedConfigOptionValues([]ConfigOptionChoice{{ID: "a", Label: "A"}})
	raw, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ConfigOptionValues
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.IsGrouped() {
		t.Error("expected ungrouped values")
	}
	choices, ok := got.Ungrouped()
	if !ok || len(choices) != 1 || choices[0].ID != "a" {
		t.Errorf("choices = %+v", choices)
	}
}

func TestSetSessionModeResponseEncodesEmptyObject(t *testing.T) {
	raw, err := json.Marshal(SetSessionModeResponse{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("got %s, want {}", raw)
	}
}

func TestWriteTextFileResponseEncodesEmptyObject(t *testing.T) {
	raw, err := json.Marshal(WriteTextFileResponse{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("got %s, want {}", raw)
	}
}
