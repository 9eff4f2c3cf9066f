package acp

import "fmt"

// ErrorCode is a JSON-RPC error code, either one of the reserved codes
// below or an opaque application-defined integer.
type ErrorCode int

const (
	ErrParse          ErrorCode = -32700
	ErrInvalidRequest ErrorCode = -32600
	ErrMethodNotFound ErrorCode = -32601
	ErrInvalidParams  ErrorCode = -32602
	ErrInternal       ErrorCode = -32603
	ErrAuthRequired   ErrorCode = -32000
	ErrResourceNotFound ErrorCode = -32002
)

var defaultMessage = map[ErrorCode]string{
	ErrParse:            "Parse error",
	ErrInvalidRequest:   "Invalid request",
	ErrMethodNotFound:   "Method not found",
	ErrInvalidParams:    "Invalid params",
	ErrInternal:         "Internal error",
	ErrAuthRequired:     "Authentication required",
	ErrResourceNotFound: "Resource not found",
}

// Error is the wire shape of a JSON-RPC error object.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// RPCError is the Go error type carried by handler return values and by
// Connection.Request's error result. It is the same shape as Error; the
// distinction exists so that application code can return a plain `error`
// from a handler for internal_error while still being able to construct a
// precisely coded error when it wants one.
type RPCError struct {
	Code    ErrorCode
	Message string
	Data    any
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("acp: %s (code %d)", e.Message, e.Code)
}

// NewRPCError builds an RPCError, filling in the default message for code
// if message is empty.
func NewRPCError(code ErrorCode, message string) *RPCError {
	if message == "" {
		message = defaultMessage[code]
	}
	return &RPCError{Code: code, Message: message}
}

// NewRPCErrorData is NewRPCError with an attached data payload.
func NewRPCErrorData(code ErrorCode, message string, data any) *RPCError {
	err := NewRPCError(code, message)
	err.Data = data
	return err
}

func (e *RPCError) toWire() *Error {
	return &Error{Code: e.Code, Message: e.Message, Data: e.Data}
}

// ErrResourceNotFoundData is the conventional `data` payload carried by a
// resource_not_found error.
type ErrResourceNotFoundData struct {
	URI string `json:"uri"`
}

// invalidParams is a convenience constructor naming the offending field.
func invalidParams(field string) *RPCError {
	return NewRPCError(ErrInvalidParams, fmt.Sprintf("invalid params: %s", field))
}

// methodNotFound is a convenience constructor naming the unknown method.
func methodNotFound(method string) *RPCError {
	return NewRPCError(ErrMethodNotFound, fmt.Sprintf("method not found: %s", method))
}
