package acp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// maxLineSize bounds a single JSON-RPC line, guarding against a
// misbehaving peer sending an unterminated stream.
const maxLineSize = 10 * 1024 * 1024

// RequestFunc handles one decoded inbound request and returns the value
// to encode as its result, or an *RPCError to encode as its error.
type RequestFunc func(ctx context.Context, method string, params json.RawMessage) (any, *RPCError)

// NotificationFunc handles one decoded inbound notification. It has no
// response channel; decode or handler failures are only logged (§4.4 step 7).
type NotificationFunc func(ctx context.Context, method string, params json.RawMessage)

type pendingWaiter struct {
	ch chan rpcResult
}

type rpcResult struct {
	result json.RawMessage
	err    *RPCError
}

// Connection is the line-framed JSON-RPC 2.0 runtime of §4.4: it
// multiplexes concurrent outbound requests against a single duplex byte
// stream, classifies inbound messages, and dispatches requests and
// notifications to caller-supplied handlers while broadcasting every
// message to live observers.
//
// A Connection is side-agnostic; NewAgentConnection and NewClientConnection
// build one with the appropriate side dispatcher wired into its
// RequestFunc/NotificationFunc.
type Connection struct {
	mu        sync.Mutex
	w         io.Writer
	nextID    int64
	pending   map[string]*pendingWaiter
	subs      map[int]*Subscription
	nextSubID int

	handleRequest      RequestFunc
	handleNotification NotificationFunc

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	log    *slog.Logger
}

// NewConnection starts a Connection reading lines from r and writing lines
// to w, dispatching inbound requests/notifications to the given handlers.
// The reader loop runs on its own goroutine; NewConnection returns
// immediately.
func NewConnection(ctx context.Context, r io.Reader, w io.Writer, handleRequest RequestFunc, handleNotification NotificationFunc) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	c := &Connection{
		w:                  w,
		pending:            make(map[string]*pendingWaiter),
		subs:               make(map[int]*Subscription),
		handleRequest:      handleRequest,
		handleNotification: handleNotification,
		ctx:                ctx,
		cancel:             cancel,
		done:               make(chan struct{}),
		log:                slog.Default(),
	}
	go c.readLoop(r)
	return c
}

// Subscribe registers an observer and returns a handle to receive every
// message the connection emits or receives from this point on.
func (c *Connection) Subscribe() *Subscription { return c.subscribe() }

// Done returns a channel closed once the connection has shut down, either
// because the input reached EOF or Close was called.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Context is the connection's lifetime context; it is cancelled when the
// connection shuts down.
func (c *Connection) Context() context.Context { return c.ctx }

// Close performs the orderly shutdown of §4.4's stop() operation: it stops
// the reader, so no inbound line is handled after Close, and rejects every
// pending waiter with a connection-closed error.
func (c *Connection) Close() error {
	c.cancel()
	c.shutdown()
	return nil
}

func (c *Connection) shutdown() {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return
	default:
	}
	close(c.done)
	pending := c.pending
	c.pending = make(map[string]*pendingWaiter)
	subs := c.subs
	c.subs = make(map[int]*Subscription)
	// Subscriber channels are closed while still holding c.mu, the same
	// lock broadcast holds for its entire send loop: once c.subs is empty
	// and these channels are closed, broadcast can no longer reach them,
	// so close(sub.ch) can never race a concurrent send on it.
	for _, s := range subs {
		close(s.ch)
	}
	c.mu.Unlock()

	closedErr := NewRPCError(ErrInternal, "connection closed")
	for _, waiter := range pending {
		waiter.ch <- rpcResult{err: closedErr}
	}
}

// Request allocates an id, emits method/params as a request, and
// suspends the caller until a matching response arrives, ctx is done, or
// the connection closes. Concurrent calls are independent (§4.4).
func (c *Connection) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	n := c.nextID
	c.nextID++
	id := IntID(n)
	waiter := &pendingWaiter{ch: make(chan rpcResult, 1)}
	c.pending[id.String()] = waiter
	c.mu.Unlock()

	raw, err := encodeRequest(id, method, params)
	if err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("acp: encode request %s: %w", method, err)
	}
	if err := c.writeLine(raw); err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("acp: write request %s: %w", method, err)
	}
	c.broadcast(Observation{Direction: DirectionOutbound, Kind: KindRequest, Method: method, ID: id, Raw: raw})

	select {
	case res := <-waiter.ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.result, nil
	case <-ctx.Done():
		c.dropPending(id)
		return nil, ctx.Err()
	case <-c.done:
		return nil, NewRPCError(ErrInternal, "connection closed")
	}
}

func (c *Connection) dropPending(id ID) {
	c.mu.Lock()
	delete(c.pending, id.String())
	c.mu.Unlock()
}

// Notify emits method/params as a fire-and-forget notification.
func (c *Connection) Notify(ctx context.Context, method string, params any) error {
	raw, err := encodeNotification(method, params)
	if err != nil {
		return fmt.Errorf("acp: encode notification %s: %w", method, err)
	}
	if err := c.writeLine(raw); err != nil {
		return fmt.Errorf("acp: write notification %s: %w", method, err)
	}
	c.broadcast(Observation{Direction: DirectionOutbound, Kind: KindNotification, Method: method, Raw: raw})
	return nil
}

func (c *Connection) respondResult(id ID, result any) {
	raw, err := encodeResultResponse(id, result)
	if err != nil {
		c.log.Warn("acp: encode result response", "err", err)
		raw, _ = encodeErrorResponse(id, NewRPCError(ErrInternal, "failed to encode result"))
	}
	if err := c.writeLine(raw); err != nil {
		c.log.Warn("acp: write response", "err", err)
		return
	}
	c.broadcast(Observation{Direction: DirectionOutbound, Kind: KindResponse, ID: id, Raw: raw})
}

func (c *Connection) respondError(id ID, rpcErr *RPCError) {
	raw, err := encodeErrorResponse(id, rpcErr)
	if err != nil {
		c.log.Warn("acp: encode error response", "err", err)
		return
	}
	if err := c.writeLine(raw); err != nil {
		c.log.Warn("acp: write error response", "err", err)
		return
	}
	c.broadcast(Observation{Direction: DirectionOutbound, Kind: KindResponse, ID: id, Raw: raw})
}

func (c *Connection) writeLine(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(raw); err != nil {
		return err
	}
	_, err := c.w.Write([]byte{'\n'})
	return err
}

// readLoop implements §4.4's inbound loop.
func (c *Connection) readLoop(r io.Reader) {
	defer c.shutdown()
	defer c.cancel()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if c.ctx.Err() != nil {
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		c.handleLine(append([]byte{}, line...))
	}
}

func (c *Connection) handleLine(line []byte) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		c.log.Debug("acp: parse error, dropping line", "err", err)
		return
	}
	if env.JSONRPC != "" && env.JSONRPC != "2.0" {
		c.log.Debug("acp: framing error: bad jsonrpc field", "jsonrpc", env.JSONRPC)
		return
	}

	switch env.classify() {
	case KindRequest:
		c.onRequest(env, line)
	case KindResponse:
		c.onResponse(env, line)
	case KindNotification:
		c.onNotification(env, line)
	default:
		c.log.Debug("acp: invalid_request shape, dropping line")
	}
}

func (c *Connection) onRequest(env envelope, line []byte) {
	id := env.id()
	c.broadcast(Observation{Direction: DirectionInbound, Kind: KindRequest, Method: env.Method, ID: id, Raw: line})

	go func() {
		result, rpcErr := c.handleRequest(c.ctx, env.Method, env.Params)
		if rpcErr != nil {
			c.respondError(id, rpcErr)
			return
		}
		c.respondResult(id, result)
	}()
}

func (c *Connection) onResponse(env envelope, line []byte) {
	id := env.id()
	c.broadcast(Observation{Direction: DirectionInbound, Kind: KindResponse, ID: id, Raw: line})

	c.mu.Lock()
	waiter, ok := c.pending[id.String()]
	if ok {
		delete(c.pending, id.String())
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug("acp: response for unknown id, dropping", "id", id.String())
		return
	}
	if env.Error != nil {
		waiter.ch <- rpcResult{err: &RPCError{Code: env.Error.Code, Message: env.Error.Message, Data: env.Error.Data}}
		return
	}
	waiter.ch <- rpcResult{result: env.Result}
}

func (c *Connection) onNotification(env envelope, line []byte) {
	c.broadcast(Observation{Direction: DirectionInbound, Kind: KindNotification, Method: env.Method, Raw: line})
	go c.handleNotification(c.ctx, env.Method, env.Params)
}
