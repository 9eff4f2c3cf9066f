package acp

import (
	"encoding/json"
	"testing"
)

func TestContentBlockRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		block ContentBlock
	}{
		{"text", TextBlock("hello")},
		{"image", ImageBlock(ImageContent{Data: "aGVsbG8=", MimeType: "image/png"})},
		{"audio", AudioBlock(AudioContent{Data: "aGVsbG8=", MimeType: "audio/wav"})},
		{"resource_link", ResourceLinkBlock(ResourceLink{URI: "file:///a.txt", Name: "a.txt"})},
		{"resource text", ResourceBlock(EmbeddedResource{Resource: NewTextResource(TextResourceContents{URI: "file:///a.txt", Text: "hi"})})},
		{"resource blob", ResourceBlock(EmbeddedResource{Resource: NewBlobResource(BlobResourceContents{URI: "file:///a.png", Blob: "aGVsbG8="})})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.block)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("unmarshal to map: %v", err)
			}
			if decoded["type"] != tt.block.Kind() {
				t.Errorf("type tag = %v, want %v", decoded["type"], tt.block.Kind())
			}

			var got ContentBlock
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Kind() != tt.block.Kind() {
				t.Errorf("Kind() = %v, want %v", got.Kind(), tt.block.Kind())
			}
		})
	}
}

func TestContentBlockUnknownTypeIsInvalidParams(t *testing.T) {
	var block ContentBlock
	err := json.Unmarshal([]byte(`{"type":"video","data":"x"}`), &block)
	if err == nil {
		t.Fatal("expected error for unknown content block type")
	}
	rpcErr, ok := err.(*RPCError)
	if !ok {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Code != ErrInvalidParams {
		t.Errorf("code = %v, want ErrInvalidParams", rpcErr.Code)
	}
}

func TestContentBlockGetters(t *testing.T) {
	block := TextBlock("hi")
	if !block.IsText() {
		t.Error("IsText() should be true")
	}
	text, ok := block.GetText()
	if !ok || text.Text != "hi" {
		t.Errorf("GetText() = %v, %v", text, ok)
	}
	if _, ok := block.GetImage(); ok {
		t.Error("GetImage() should report false for a text block")
	}
}

func TestEmbeddedResourceResourceStructuralProbe(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		isBlob  bool
	}{
		{"text variant", `{"uri":"file:///a","text":"hello"}`, false},
		{"blob variant", `{"uri":"file:///a","blob":"aGVsbG8="}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r EmbeddedResourceResource
			if err := json.Unmarshal([]byte(tt.json), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			_, isBlob := r.AsBlob()
			if isBlob != tt.isBlob {
				t.Errorf("AsBlob ok = %v, want %v", isBlob, tt.isBlob)
			}
		})
	}
}

func TestAnnotationsIsZero(t *testing.T) {
	if !(Annotations{}).isZero() {
		t.Error("empty Annotations should be zero")
	}
	if (Annotations{Audience: []Role{RoleUser}}).isZero() {
		t.Error("Annotations with audience should not be zero")
	}
}
