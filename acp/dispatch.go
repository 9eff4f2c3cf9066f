package acp

import (
	"encoding/json"
	"strings"
)

// Method names, exactly as they appear on the wire (§6).
const (
	MethodInitialize   = "initialize"
	MethodAuthenticate = "authenticate"

	MethodSessionNew             = "session/new"
	MethodSessionLoad            = "session/load"
	MethodSessionSetMode         = "session/set_mode"
	MethodSessionPrompt          = "session/prompt"
	MethodSessionCancel          = "session/cancel"
	MethodSessionList            = "session/list"
	MethodSessionFork            = "session/fork"
	MethodSessionResume          = "session/resume"
	MethodSessionSetConfigOption = "session/set_config_option"
	MethodSessionSetModel        = "session/set_model"

	MethodSessionRequestPermission = "session/request_permission"
	MethodSessionUpdate            = "session/update"

	MethodFsReadTextFile  = "fs/read_text_file"
	MethodFsWriteTextFile = "fs/write_text_file"

	MethodTerminalCreate      = "terminal/create"
	MethodTerminalOutput      = "terminal/output"
	MethodTerminalRelease     = "terminal/release"
	MethodTerminalWaitForExit = "terminal/wait_for_exit"
	MethodTerminalKill        = "terminal/kill"
)

// DecodedRequest is a side dispatcher's output for an inbound request: the
// method's tag and its decoded params, ready for a type switch or a
// field-by-field Get in the caller.
type DecodedRequest struct {
	Method string
	Params any
}

// DecodedNotification mirrors DecodedRequest for notifications.
type DecodedNotification struct {
	Method string
	Params any
}

// ExtMethodParams is the decoded shape of an extension method: the
// `_`-prefix stripped from the name, and the params passed through
// untouched, opaque to the core (§9's resolved open question).
type ExtMethodParams struct {
	Method string
	Params json.RawMessage
}

func decodeExtension(method string, params json.RawMessage) (DecodedRequest, bool) {
	if !strings.HasPrefix(method, "_") {
		return DecodedRequest{}, false
	}
	return DecodedRequest{Method: "ext_method", Params: ExtMethodParams{Method: strings.TrimPrefix(method, "_"), Params: params}}, true
}

func decodeExtensionNotification(method string, params json.RawMessage) (DecodedNotification, bool) {
	if !strings.HasPrefix(method, "_") {
		return DecodedNotification{}, false
	}
	return DecodedNotification{Method: "ext_notification", Params: ExtMethodParams{Method: strings.TrimPrefix(method, "_"), Params: params}}, true
}

// requireParams rejects a nil params object uniformly, per §4.3's common
// rule that params == nil for a recognized method is invalid_params.
func requireParams(params json.RawMessage, method string) *RPCError {
	if params == nil {
		return invalidParams(method)
	}
	return nil
}

// AgentSideDispatcher decodes inbound (method, params) pairs the way an
// agent receives them.
type AgentSideDispatcher struct{}

// DecodeRequest implements §4.3 for the agent side.
func (AgentSideDispatcher) DecodeRequest(method string, params json.RawMessage) (DecodedRequest, *RPCError) {
	if d, ok := decodeExtension(method, params); ok {
		return d, nil
	}
	switch method {
	case MethodInitialize:
		return decodeAgentRequest[InitializeRequest](method, params)
	case MethodAuthenticate:
		return decodeAgentRequest[AuthenticateRequest](method, params)
	case MethodSessionNew:
		return decodeAgentRequest[NewSessionRequest](method, params)
	case MethodSessionLoad:
		return decodeAgentRequest[LoadSessionRequest](method, params)
	case MethodSessionSetMode:
		return decodeAgentRequest[SetSessionModeRequest](method, params)
	case MethodSessionPrompt:
		return decodeAgentRequest[PromptRequest](method, params)
	case MethodSessionList:
		return decodeAgentRequest[ListSessionsRequest](method, params)
	case MethodSessionFork:
		return decodeAgentRequest[ForkSessionRequest](method, params)
	case MethodSessionResume:
		return decodeAgentRequest[ResumeSessionRequest](method, params)
	case MethodSessionSetConfigOption:
		return decodeAgentRequest[SetSessionConfigOptionRequest](method, params)
	case MethodSessionSetModel:
		return decodeAgentRequest[SetSessionModelRequest](method, params)
	default:
		return DecodedRequest{}, methodNotFound(method)
	}
}

func decodeAgentRequest[T any](method string, params json.RawMessage) (DecodedRequest, *RPCError) {
	if err := requireParams(params, method); err != nil {
		return DecodedRequest{}, err
	}
	var v T
	if err := json.Unmarshal(params, &v); err != nil {
		return DecodedRequest{}, invalidParams(method)
	}
	return DecodedRequest{Method: method, Params: v}, nil
}

// DecodeNotification implements §4.3 for the agent side's single
// notification method, session/cancel.
func (AgentSideDispatcher) DecodeNotification(method string, params json.RawMessage) (DecodedNotification, *RPCError) {
	if d, ok := decodeExtensionNotification(method, params); ok {
		return d, nil
	}
	switch method {
	case MethodSessionCancel:
		if err := requireParams(params, method); err != nil {
			return DecodedNotification{}, err
		}
		var v CancelNotification
		if err := json.Unmarshal(params, &v); err != nil {
			return DecodedNotification{}, invalidParams(method)
		}
		return DecodedNotification{Method: method, Params: v}, nil
	default:
		return DecodedNotification{}, methodNotFound(method)
	}
}

// ClientSideDispatcher decodes inbound (method, params) pairs the way a
// client receives them.
type ClientSideDispatcher struct{}

// DecodeRequest implements §4.3 for the client side.
func (ClientSideDispatcher) DecodeRequest(method string, params json.RawMessage) (DecodedRequest, *RPCError) {
	if d, ok := decodeExtension(method, params); ok {
		return d, nil
	}
	switch method {
	case MethodSessionRequestPermission:
		return decodeClientRequest[RequestPermissionRequest](method, params)
	case MethodFsReadTextFile:
		return decodeClientRequest[ReadTextFileRequest](method, params)
	case MethodFsWriteTextFile:
		return decodeClientRequest[WriteTextFileRequest](method, params)
	case MethodTerminalCreate:
		return decodeClientRequest[CreateTerminalRequest](method, params)
	case MethodTerminalOutput:
		return decodeClientRequest[TerminalOutputRequest](method, params)
	case MethodTerminalRelease:
		return decodeClientRequest[ReleaseTerminalRequest](method, params)
	case MethodTerminalWaitForExit:
		return decodeClientRequest[WaitForExitRequest](method, params)
	case MethodTerminalKill:
		return decodeClientRequest[KillTerminalRequest](method, params)
	default:
		return DecodedRequest{}, methodNotFound(method)
	}
}

func decodeClientRequest[T any](method string, params json.RawMessage) (DecodedRequest, *RPCError) {
	if err := requireParams(params, method); err != nil {
		return DecodedRequest{}, err
	}
	var v T
	if err := json.Unmarshal(params, &v); err != nil {
		return DecodedRequest{}, invalidParams(method)
	}
	return DecodedRequest{Method: method, Params: v}, nil
}

// DecodeNotification implements §4.3 for the client side's single
// notification method, session/update.
func (ClientSideDispatcher) DecodeNotification(method string, params json.RawMessage) (DecodedNotification, *RPCError) {
	if d, ok := decodeExtensionNotification(method, params); ok {
		return d, nil
	}
	switch method {
	case MethodSessionUpdate:
		if err := requireParams(params, method); err != nil {
			return DecodedNotification{}, err
		}
		var v SessionNotification
		if err := json.Unmarshal(params, &v); err != nil {
			return DecodedNotification{}, invalidParams(method)
		}
		return DecodedNotification{Method: method, Params: v}, nil
	default:
		return DecodedNotification{}, methodNotFound(method)
	}
}
