package acp

import (
	"encoding/json"
	"testing"
)

func TestSessionInfoUpdateThreeStates(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"both undefined", `{}`},
		{"title null, updatedAt undefined", `{"title":null}`},
		{"title value, updatedAt null", `{"title":"hello","updatedAt":null}`},
		{"both values", `{"title":"hello","updatedAt":"2026-08-06T00:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u SessionInfoUpdate
			if err := json.Unmarshal([]byte(tt.json), &u); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			raw, err := json.Marshal(u)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var roundTripped SessionInfoUpdate
			if err := json.Unmarshal(raw, &roundTripped); err != nil {
				t.Fatalf("unmarshal round trip: %v", err)
			}
			if roundTripped.Title.IsUndefined() != u.Title.IsUndefined() ||
				roundTripped.Title.IsNull() != u.Title.IsNull() {
				t.Errorf("title state changed across round trip")
			}
			if roundTripped.UpdatedAt.IsUndefined() != u.UpdatedAt.IsUndefined() ||
				roundTripped.UpdatedAt.IsNull() != u.UpdatedAt.IsNull() {
				t.Errorf("updatedAt state changed across round trip")
			}
		})
	}
}

func TestSessionInfoUpdateDistinguishesUndefinedFromNull(t *testing.T) {
	var undefined SessionInfoUpdate
	if err := json.Unmarshal([]byte(`{}`), &undefined); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !undefined.Title.IsUndefined() {
		t.Error("expected title undefined")
	}

	var explicitNull SessionInfoUpdate
	if err := json.Unmarshal([]byte(`{"title":null}`), &explicitNull); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !explicitNull.Title.IsNull() {
		t.Error("expected title null")
	}
	if explicitNull.Title.IsUndefined() {
		t.Error("null must not be confused with undefined")
	}
}

func TestSessionInfoUpdateOmitsUndefinedKeys(t *testing.T) {
	u := SessionInfoUpdate{Title: Value("new title"), UpdatedAt: Undefined[string]()}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["updatedAt"]; ok {
		t.Error("undefined field should be omitted from the wire entirely")
	}
	if _, ok := decoded["title"]; !ok {
		t.Error("value field should be present")
	}
}

func TestOptionalGet(t *testing.T) {
	v := Value(5)
	got, ok := v.Get()
	if !ok || got != 5 {
		t.Errorf("Get() = %v, %v, want 5, true", got, ok)
	}

	n := Null[int]()
	if _, ok := n.Get(); ok {
		t.Error("Get() on null should report false")
	}

	u := Undefined[int]()
	if _, ok := u.Get(); ok {
		t.Error("Get() on undefined should report false")
	}
}
