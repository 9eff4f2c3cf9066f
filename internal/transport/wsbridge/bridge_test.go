package wsbridge

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBridgeRelaysAgentOutputToClient(t *testing.T) {
	agentOut := strings.NewReader(`{"jsonrpc":"2.0","method":"session/update","params":{}}` + "\n")
	agentIn := io.Discard

	srv := httptest.NewServer(New(agentOut, agentIn))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !strings.Contains(string(msg), "session/update") {
		t.Errorf("msg = %s", msg)
	}
}

func TestBridgeRelaysClientMessagesToAgent(t *testing.T) {
	agentOutR, agentOutW := io.Pipe()
	defer agentOutW.Close()
	var agentIn writeRecorder

	srv := httptest.NewServer(New(agentOutR, &agentIn))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	payload := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":1}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if agentIn.String() != "" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(agentIn.String(), "initialize") {
		t.Errorf("agent received %q", agentIn.String())
	}
}

func TestBridgeOnLineObservesBothDirections(t *testing.T) {
	agentOut := strings.NewReader(`{"jsonrpc":"2.0","method":"session/update","params":{}}` + "\n")
	var agentIn writeRecorder

	b := New(agentOut, &agentIn)

	var mu sync.Mutex
	var seen []string
	b.OnLine(func(direction string, line []byte) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, direction+":"+string(line))
	})

	srv := httptest.NewServer(b)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	payload := `{"jsonrpc":"2.0","id":1,"method":"initialize"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	var sawOutbound, sawInbound bool
	for _, s := range seen {
		if strings.HasPrefix(s, "outbound:") {
			sawOutbound = true
		}
		if strings.HasPrefix(s, "inbound:") {
			sawInbound = true
		}
	}
	if !sawOutbound || !sawInbound {
		t.Errorf("seen = %v, want both an outbound and an inbound entry", seen)
	}
}

type writeRecorder struct {
	mu  sync.Mutex
	buf []byte
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *writeRecorder) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}
