// Package tracesink records an ACP connection's observation stream to a
// daily JSONL file, for after-the-fact debugging of a session.
package tracesink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/acpkit/acpcore/acp"
)

// Sink writes every Observation it is given to a daily-rotated JSONL file
// under dir, and mirrors a one-line summary through logger.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// Entry is one line of the trace file.
type Entry struct {
	Timestamp string          `json:"timestamp"`
	Direction string          `json:"direction"`
	Kind      string          `json:"kind"`
	Method    string          `json:"method,omitempty"`
	ID        string          `json:"id,omitempty"`
	Raw       json.RawMessage `json:"raw"`
}

// New builds a Sink writing under dir. dir is created lazily on first write.
func New(dir string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{dir: dir, logger: logger}
}

// Run drains sub until its channel closes, writing every observation it
// sees. Intended to run on its own goroutine for the lifetime of a
// Connection: go sink.Run(conn.Subscribe()).
func (s *Sink) Run(sub *acp.Subscription) {
	for obs := range sub.C() {
		s.record(obs)
	}
}

// RecordLine logs one raw JSON-RPC line crossing a transport that has no
// typed Connection of its own (e.g. a byte-level relay), classifying it by
// a quick peek at its "method"/"id" keys rather than a full decode.
func (s *Sink) RecordLine(direction string, raw []byte) {
	var probe struct {
		Method string          `json:"method"`
		ID     json.RawMessage `json:"id"`
	}
	_ = json.Unmarshal(raw, &probe)

	kind := "invalid"
	switch {
	case probe.Method != "" && len(probe.ID) > 0:
		kind = "request"
	case probe.Method != "":
		kind = "notification"
	case len(probe.ID) > 0:
		kind = "response"
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: direction,
		Kind:      kind,
		Method:    probe.Method,
		Raw:       json.RawMessage(raw),
	}
	s.write(entry)
	s.logger.Debug("acp trace", "direction", direction, "kind", kind, "method", probe.Method)
}

func kindName(k acp.Kind) string {
	switch k {
	case acp.KindRequest:
		return "request"
	case acp.KindResponse:
		return "response"
	case acp.KindNotification:
		return "notification"
	default:
		return "invalid"
	}
}

func (s *Sink) record(obs acp.Observation) {
	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: obs.Direction.String(),
		Kind:      kindName(obs.Kind),
		Method:    obs.Method,
		ID:        obs.ID.String(),
		Raw:       json.RawMessage(obs.Raw),
	}
	s.write(entry)
	s.logger.Debug("acp trace", "direction", entry.Direction, "kind", entry.Kind, "method", entry.Method)
}

func (s *Sink) write(entry Entry) {
	if s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}

	path := filepath.Join(s.dir, fmt.Sprintf("trace_%s.jsonl", time.Now().Format("2006-01-02")))
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	f.Write(data)
	f.WriteString("\n")
}
