package acp

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a decoded JSON-RPC message.
type Kind int

const (
	KindInvalid Kind = iota
	KindRequest
	KindResponse
	KindNotification
)

// ID is the wire request id: absent, null, an integer, or a string. It is
// carried opaquely and only ever equality-compared for correlation.
type ID struct {
	raw json.RawMessage // nil means absent
}

// NoID is the absent-id value used for notifications.
var NoID = ID{}

// IntID wraps an integer request id.
func IntID(n int64) ID {
	raw, _ := json.Marshal(n)
	return ID{raw: raw}
}

// StringID wraps a string request id.
func StringID(s string) ID {
	raw, _ := json.Marshal(s)
	return ID{raw: raw}
}

// NullID is the JSON-null request id, accepted on read per §6.
var NullID = ID{raw: json.RawMessage("null")}

// IsAbsent reports whether the id is the "no id present" marker.
func (id ID) IsAbsent() bool { return id.raw == nil }

// Equal reports whether two ids carry the same JSON representation.
func (id ID) Equal(other ID) bool {
	return string(id.raw) == string(other.raw)
}

// String renders the id for logging.
func (id ID) String() string {
	if id.IsAbsent() {
		return "<absent>"
	}
	return string(id.raw)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsAbsent() {
		return json.RawMessage("null"), nil
	}
	return id.raw, nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	id.raw = append(json.RawMessage{}, data...)
	return nil
}

// envelope is the raw shape used to classify and decode an inbound line.
//
// ID is decoded as json.RawMessage rather than *ID: encoding/json sets a
// pointer-typed field to nil for a JSON null without ever calling the
// pointee's UnmarshalJSON, which would make a literal "id":null
// indistinguishable from an absent id. json.RawMessage has no such special
// case — an absent key leaves the field at its nil zero value, while a
// present "null" decodes to the four bytes "null" — so key presence and a
// null literal stay distinguishable, the same technique decodeOptional
// uses for partial-update payloads.
type envelope struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// id returns the envelope's id field as an ID, translating an absent key
// to NoID and a present null to NullID.
func (e envelope) id() ID {
	if e.ID == nil {
		return NoID
	}
	return ID{raw: append(json.RawMessage{}, e.ID...)}
}

// classify implements §4.2's shape table. The caller has already rejected
// a bad jsonrpc field before calling this.
func (e envelope) classify() Kind {
	hasID := e.ID != nil
	hasMethod := e.Method != ""
	hasResult := e.Result != nil
	hasError := e.Error != nil

	switch {
	case hasID && hasMethod:
		return KindRequest
	case hasID && !hasMethod && (hasResult != hasError):
		return KindResponse
	case hasMethod && !hasID:
		return KindNotification
	default:
		return KindInvalid
	}
}

// Request is a decoded inbound or outbound JSON-RPC request.
type Request struct {
	ID     ID
	Method string
	Params json.RawMessage
}

// Notification is a decoded inbound or outbound JSON-RPC notification.
type Notification struct {
	Method string
	Params json.RawMessage
}

// Response is a decoded inbound or outbound JSON-RPC response.
type Response struct {
	ID     ID
	Result json.RawMessage
	Error  *Error
}

func encodeRequest(id ID, method string, params any) ([]byte, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      ID              `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{"2.0", id, method, raw})
}

func encodeNotification(method string, params any) ([]byte, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{"2.0", method, raw})
}

func encodeResultResponse(id ID, result any) ([]byte, error) {
	raw, err := marshalParams(result)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = json.RawMessage("{}")
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      ID              `json:"id"`
		Result  json.RawMessage `json:"result"`
	}{"2.0", id, raw})
}

func encodeErrorResponse(id ID, rpcErr *RPCError) ([]byte, error) {
	return json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		ID      ID     `json:"id"`
		Error   *Error `json:"error"`
	}{"2.0", id, rpcErr.toWire()})
}

func marshalParams(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("acp: marshal params: %w", err)
	}
	return json.RawMessage(b), nil
}
