package acp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// ClientHandler is the callback set a hosting program implements to act as
// the client (editor) side of a connection (§6). RequestPermission and
// SessionUpdate are required; embed UnimplementedClientHandler to answer
// every other method with method_not_found.
type ClientHandler interface {
	RequestPermission(ctx context.Context, req RequestPermissionRequest) (RequestPermissionResponse, error)
	SessionUpdate(ctx context.Context, note SessionNotification)

	ReadTextFile(ctx context.Context, req ReadTextFileRequest) (ReadTextFileResponse, error)
	WriteTextFile(ctx context.Context, req WriteTextFileRequest) (WriteTextFileResponse, error)
	CreateTerminal(ctx context.Context, req CreateTerminalRequest) (CreateTerminalResponse, error)
	TerminalOutput(ctx context.Context, req TerminalOutputRequest) (TerminalOutputResponse, error)
	ReleaseTerminal(ctx context.Context, req ReleaseTerminalRequest) (ReleaseTerminalResponse, error)
	WaitForTerminalExit(ctx context.Context, req WaitForExitRequest) (WaitForExitResponse, error)
	KillTerminal(ctx context.Context, req KillTerminalRequest) (KillTerminalResponse, error)
	ExtMethod(ctx context.Context, params ExtMethodParams) (json.RawMessage, error)
	ExtNotification(ctx context.Context, params ExtMethodParams)
}

// UnimplementedClientHandler answers every optional ClientHandler method
// with method_not_found. Embed it in a concrete handler and override only
// the methods that handler actually supports.
type UnimplementedClientHandler struct{}

func (UnimplementedClientHandler) ReadTextFile(context.Context, ReadTextFileRequest) (ReadTextFileResponse, error) {
	return ReadTextFileResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) WriteTextFile(context.Context, WriteTextFileRequest) (WriteTextFileResponse, error) {
	return WriteTextFileResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) CreateTerminal(context.Context, CreateTerminalRequest) (CreateTerminalResponse, error) {
	return CreateTerminalResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) TerminalOutput(context.Context, TerminalOutputRequest) (TerminalOutputResponse, error) {
	return TerminalOutputResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) ReleaseTerminal(context.Context, ReleaseTerminalRequest) (ReleaseTerminalResponse, error) {
	return ReleaseTerminalResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) WaitForTerminalExit(context.Context, WaitForExitRequest) (WaitForExitResponse, error) {
	return WaitForExitResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) KillTerminal(context.Context, KillTerminalRequest) (KillTerminalResponse, error) {
	return KillTerminalResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) ExtMethod(context.Context, ExtMethodParams) (json.RawMessage, error) {
	return nil, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedClientHandler) ExtNotification(context.Context, ExtMethodParams) {}

// NewClientConnection wires handler into a Connection using the
// client-side dispatcher, reading from r and writing to w.
func NewClientConnection(ctx context.Context, handler ClientHandler, w io.Writer, r io.Reader) *Connection {
	var disp ClientSideDispatcher

	handleRequest := func(ctx context.Context, method string, params json.RawMessage) (any, *RPCError) {
		decoded, rpcErr := disp.DecodeRequest(method, params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return dispatchClientRequest(ctx, handler, decoded)
	}

	handleNotification := func(ctx context.Context, method string, params json.RawMessage) {
		decoded, rpcErr := disp.DecodeNotification(method, params)
		if rpcErr != nil {
			slog.Debug("acp: dropping notification", "method", method, "err", rpcErr)
			return
		}
		switch decoded.Method {
		case MethodSessionUpdate:
			handler.SessionUpdate(ctx, decoded.Params.(SessionNotification))
		case "ext_notification":
			handler.ExtNotification(ctx, decoded.Params.(ExtMethodParams))
		}
	}

	return NewConnection(ctx, r, w, handleRequest, handleNotification)
}

func dispatchClientRequest(ctx context.Context, h ClientHandler, decoded DecodedRequest) (any, *RPCError) {
	switch decoded.Method {
	case MethodSessionRequestPermission:
		resp, err := h.RequestPermission(ctx, decoded.Params.(RequestPermissionRequest))
		return wrap(resp, err)
	case MethodFsReadTextFile:
		resp, err := h.ReadTextFile(ctx, decoded.Params.(ReadTextFileRequest))
		return wrap(resp, err)
	case MethodFsWriteTextFile:
		resp, err := h.WriteTextFile(ctx, decoded.Params.(WriteTextFileRequest))
		return wrap(resp, err)
	case MethodTerminalCreate:
		resp, err := h.CreateTerminal(ctx, decoded.Params.(CreateTerminalRequest))
		return wrap(resp, err)
	case MethodTerminalOutput:
		resp, err := h.TerminalOutput(ctx, decoded.Params.(TerminalOutputRequest))
		return wrap(resp, err)
	case MethodTerminalRelease:
		resp, err := h.ReleaseTerminal(ctx, decoded.Params.(ReleaseTerminalRequest))
		return wrap(resp, err)
	case MethodTerminalWaitForExit:
		resp, err := h.WaitForTerminalExit(ctx, decoded.Params.(WaitForExitRequest))
		return wrap(resp, err)
	case MethodTerminalKill:
		resp, err := h.KillTerminal(ctx, decoded.Params.(KillTerminalRequest))
		return wrap(resp, err)
	case "ext_method":
		raw, err := h.ExtMethod(ctx, decoded.Params.(ExtMethodParams))
		return wrap(raw, err)
	default:
		return nil, methodNotFound(decoded.Method)
	}
}
