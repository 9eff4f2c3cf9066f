package acp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// AgentHandler is the callback set a hosting program implements to act as
// the agent side of a connection (§6). Initialize, Authenticate, NewSession,
// Prompt and Cancel are required; embed UnimplementedAgentHandler to answer
// every other method with method_not_found.
type AgentHandler interface {
	Initialize(ctx context.Context, req InitializeRequest) (InitializeResponse, error)
	Authenticate(ctx context.Context, req AuthenticateRequest) (AuthenticateResponse, error)
	NewSession(ctx context.Context, req NewSessionRequest) (NewSessionResponse, error)
	Prompt(ctx context.Context, req PromptRequest) (PromptResponse, error)
	Cancel(ctx context.Context, note CancelNotification)

	LoadSession(ctx context.Context, req LoadSessionRequest) (LoadSessionResponse, error)
	SetSessionMode(ctx context.Context, req SetSessionModeRequest) (SetSessionModeResponse, error)
	ListSessions(ctx context.Context, req ListSessionsRequest) (ListSessionsResponse, error)
	ForkSession(ctx context.Context, req ForkSessionRequest) (ForkSessionResponse, error)
	ResumeSession(ctx context.Context, req ResumeSessionRequest) (ResumeSessionResponse, error)
	SetSessionConfigOption(ctx context.Context, req SetSessionConfigOptionRequest) (SetSessionConfigOptionResponse, error)
	SetSessionModel(ctx context.Context, req SetSessionModelRequest) (SetSessionModelResponse, error)
	ExtMethod(ctx context.Context, params ExtMethodParams) (json.RawMessage, error)
	ExtNotification(ctx context.Context, params ExtMethodParams)
}

// UnimplementedAgentHandler answers every optional AgentHandler method
// with method_not_found. Embed it in a concrete handler and override only
// the methods that handler actually supports.
type UnimplementedAgentHandler struct{}

func (UnimplementedAgentHandler) LoadSession(context.Context, LoadSessionRequest) (LoadSessionResponse, error) {
	return LoadSessionResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) SetSessionMode(context.Context, SetSessionModeRequest) (SetSessionModeResponse, error) {
	return SetSessionModeResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) ListSessions(context.Context, ListSessionsRequest) (ListSessionsResponse, error) {
	return ListSessionsResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) ForkSession(context.Context, ForkSessionRequest) (ForkSessionResponse, error) {
	return ForkSessionResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) ResumeSession(context.Context, ResumeSessionRequest) (ResumeSessionResponse, error) {
	return ResumeSessionResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) SetSessionConfigOption(context.Context, SetSessionConfigOptionRequest) (SetSessionConfigOptionResponse, error) {
	return SetSessionConfigOptionResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) SetSessionModel(context.Context, SetSessionModelRequest) (SetSessionModelResponse, error) {
	return SetSessionModelResponse{}, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) ExtMethod(context.Context, ExtMethodParams) (json.RawMessage, error) {
	return nil, NewRPCError(ErrMethodNotFound, "")
}

func (UnimplementedAgentHandler) ExtNotification(context.Context, ExtMethodParams) {}

// NewAgentConnection wires handler into a Connection using the agent-side
// dispatcher, reading from r and writing to w.
func NewAgentConnection(ctx context.Context, handler AgentHandler, w io.Writer, r io.Reader) *Connection {
	var disp AgentSideDispatcher

	handleRequest := func(ctx context.Context, method string, params json.RawMessage) (any, *RPCError) {
		decoded, rpcErr := disp.DecodeRequest(method, params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return dispatchAgentRequest(ctx, handler, decoded)
	}

	handleNotification := func(ctx context.Context, method string, params json.RawMessage) {
		decoded, rpcErr := disp.DecodeNotification(method, params)
		if rpcErr != nil {
			slog.Debug("acp: dropping notification", "method", method, "err", rpcErr)
			return
		}
		switch decoded.Method {
		case MethodSessionCancel:
			handler.Cancel(ctx, decoded.Params.(CancelNotification))
		case "ext_notification":
			handler.ExtNotification(ctx, decoded.Params.(ExtMethodParams))
		}
	}

	return NewConnection(ctx, r, w, handleRequest, handleNotification)
}

func dispatchAgentRequest(ctx context.Context, h AgentHandler, decoded DecodedRequest) (any, *RPCError) {
	switch decoded.Method {
	case MethodInitialize:
		resp, err := h.Initialize(ctx, decoded.Params.(InitializeRequest))
		return wrap(resp, err)
	case MethodAuthenticate:
		resp, err := h.Authenticate(ctx, decoded.Params.(AuthenticateRequest))
		return wrap(resp, err)
	case MethodSessionNew:
		resp, err := h.NewSession(ctx, decoded.Params.(NewSessionRequest))
		return wrap(resp, err)
	case MethodSessionLoad:
		resp, err := h.LoadSession(ctx, decoded.Params.(LoadSessionRequest))
		return wrap(resp, err)
	case MethodSessionSetMode:
		resp, err := h.SetSessionMode(ctx, decoded.Params.(SetSessionModeRequest))
		return wrap(resp, err)
	case MethodSessionPrompt:
		resp, err := h.Prompt(ctx, decoded.Params.(PromptRequest))
		return wrap(resp, err)
	case MethodSessionList:
		resp, err := h.ListSessions(ctx, decoded.Params.(ListSessionsRequest))
		return wrap(resp, err)
	case MethodSessionFork:
		resp, err := h.ForkSession(ctx, decoded.Params.(ForkSessionRequest))
		return wrap(resp, err)
	case MethodSessionResume:
		resp, err := h.ResumeSession(ctx, decoded.Params.(ResumeSessionRequest))
		return wrap(resp, err)
	case MethodSessionSetConfigOption:
		resp, err := h.SetSessionConfigOption(ctx, decoded.Params.(SetSessionConfigOptionRequest))
		return wrap(resp, err)
	case MethodSessionSetModel:
		resp, err := h.SetSessionModel(ctx, decoded.Params.(SetSessionModelRequest))
		return wrap(resp, err)
	case "ext_method":
		raw, err := h.ExtMethod(ctx, decoded.Params.(ExtMethodParams))
		return wrap(raw, err)
	default:
		return nil, methodNotFound(decoded.Method)
	}
}

// wrap normalizes a handler's (value, error) return into (value,
// *RPCError): a plain error becomes an internal_error; an *RPCError passes
// through unchanged, preserving its code (§7's handler-errors rule).
func wrap(v any, err error) (any, *RPCError) {
	if err == nil {
		return v, nil
	}
	if rpcErr, ok := err.(*RPCError); ok {
		return nil, rpcErr
	}
	return nil, NewRPCError(ErrInternal, err.Error())
}
