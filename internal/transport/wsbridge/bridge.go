// Package wsbridge exposes an ACP connection's line-framed JSON-RPC
// stream over a websocket, so a browser-based client can drive an agent
// that only speaks stdio.
package wsbridge

import (
	"bufio"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Bridge relays whole JSON-RPC lines between a websocket connection and a
// paired (agentOut, agentIn) byte stream, one per upgraded connection.
// agentOut is read from (the agent's responses/notifications/requests);
// agentIn is written to (messages the browser client sends the agent).
type Bridge struct {
	agentOut io.Reader
	agentIn  io.Writer
	log      *slog.Logger
	observe  func(direction string, line []byte)
}

// New builds a Bridge over the given duplex stream.
func New(agentOut io.Reader, agentIn io.Writer) *Bridge {
	return &Bridge{agentOut: agentOut, agentIn: agentIn, log: slog.Default()}
}

// OnLine registers fn to be called with every line the Bridge relays in
// either direction ("inbound" from the websocket client, "outbound" from
// the agent), before it is forwarded. fn must not block.
func (b *Bridge) OnLine(fn func(direction string, line []byte)) {
	b.observe = fn
}

func (b *Bridge) notify(direction string, line []byte) {
	if b.observe != nil {
		b.observe(direction, line)
	}
}

// ServeHTTP upgrades the request to a websocket and relays lines until
// either side closes.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Error("wsbridge: upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	fromAgent := make(chan []byte, 64)
	done := make(chan struct{})

	go func() {
		defer close(fromAgent)
		scanner := bufio.NewScanner(b.agentOut)
		scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		for scanner.Scan() {
			line := append([]byte{}, scanner.Bytes()...)
			b.notify("outbound", line)
			select {
			case fromAgent <- line:
			case <-done:
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case line, ok := <-fromAgent:
				if !ok {
					return
				}
				writeMu.Lock()
				err := conn.WriteMessage(websocket.TextMessage, line)
				writeMu.Unlock()
				if err != nil {
					b.log.Debug("wsbridge: write to client failed", "err", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			close(done)
			return
		}
		b.notify("inbound", msg)
		if _, err := b.agentIn.Write(append(msg, '\n')); err != nil {
			b.log.Debug("wsbridge: write to agent failed", "err", err)
			close(done)
			return
		}
	}
}
