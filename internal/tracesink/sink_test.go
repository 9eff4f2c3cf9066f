package tracesink

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acpkit/acpcore/acp"
)

func TestSinkWritesObservationAsJSONLLine(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, nil)

	sink.record(acp.Observation{
		Direction: acp.DirectionOutbound,
		Kind:      acp.KindRequest,
		Method:    "initialize",
		ID:        acp.IntID(1),
		Raw:       []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`),
	})

	matches, err := filepath.Glob(filepath.Join(dir, "trace_*.jsonl"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one trace file, got %v", matches)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("expected at least one line")
	}

	var entry Entry
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entry.Direction != "outbound" {
		t.Errorf("Direction = %q, want outbound", entry.Direction)
	}
	if entry.Kind != "request" {
		t.Errorf("Kind = %q, want request", entry.Kind)
	}
	if entry.Method != "initialize" {
		t.Errorf("Method = %q, want initialize", entry.Method)
	}
	if entry.ID != "1" {
		t.Errorf("ID = %q, want 1", entry.ID)
	}
}

func TestSinkAppendsMultipleEntries(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, nil)

	sink.record(acp.Observation{Direction: acp.DirectionInbound, Kind: acp.KindNotification, Method: "session/update", Raw: []byte(`{}`)})
	sink.record(acp.Observation{Direction: acp.DirectionOutbound, Kind: acp.KindResponse, ID: acp.IntID(2), Raw: []byte(`{}`)})

	matches, _ := filepath.Glob(filepath.Join(dir, "trace_*.jsonl"))
	if len(matches) != 1 {
		t.Fatalf("expected one trace file, got %v", matches)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := splitLines(data)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
}

func TestSinkRecordLineClassifiesByMethodAndID(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, nil)

	sink.RecordLine("inbound", []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
	sink.RecordLine("outbound", []byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	sink.RecordLine("outbound", []byte(`{"jsonrpc":"2.0","method":"session/update","params":{}}`))

	matches, _ := filepath.Glob(filepath.Join(dir, "trace_*.jsonl"))
	if len(matches) != 1 {
		t.Fatalf("expected one trace file, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := splitLines(data)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	wantKinds := []string{"request", "response", "notification"}
	for i, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Unmarshal line %d: %v", i, err)
		}
		if entry.Kind != wantKinds[i] {
			t.Errorf("line %d: Kind = %q, want %q", i, entry.Kind, wantKinds[i])
		}
	}
}

func TestSinkWithEmptyDirDoesNotPanic(t *testing.T) {
	sink := New("", nil)
	sink.record(acp.Observation{Direction: acp.DirectionOutbound, Kind: acp.KindRequest, Method: "x", Raw: []byte(`{}`)})
}

func TestSinkRunDrainsSubscription(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, nil)

	ctx := context.Background()
	peerR, selfW := io.Pipe()
	selfR, peerW := io.Pipe()
	defer peerR.Close()
	defer peerW.Close()

	noopRequest := func(ctx context.Context, method string, params json.RawMessage) (any, *acp.RPCError) {
		return nil, nil
	}
	noopNotification := func(ctx context.Context, method string, params json.RawMessage) {}

	conn := acp.NewConnection(ctx, selfR, selfW, noopRequest, noopNotification)
	defer conn.Close()
	peer := acp.NewConnection(ctx, peerR, peerW, noopRequest, noopNotification)
	defer peer.Close()

	sub := conn.Subscribe()
	done := make(chan struct{})
	go func() {
		sink.Run(sub)
		close(done)
	}()

	if err := conn.Notify(ctx, "session/update", map[string]any{}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		matches, _ := filepath.Glob(filepath.Join(dir, "trace_*.jsonl"))
		if len(matches) == 1 {
			data, _ := os.ReadFile(matches[0])
			if len(data) > 0 {
				sub.Close()
				<-done
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	sub.Close()
	<-done
	t.Fatal("timed out waiting for trace file to be written")
}

func splitLines(data []byte) []string {
	var lines []string
	var cur []byte
	for _, b := range data {
		if b == '\n' {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
			}
			cur = nil
			continue
		}
		cur = append(cur, b)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

