// Package acp implements the Agent Client Protocol: a bidirectional
// JSON-RPC 2.0 protocol spoken between a client (typically an editor) and
// an agent (typically an AI coding assistant) over a pair of byte streams.
//
// The package is organized in the same four layers the protocol itself
// has: a schema of typed payloads with bit-exact JSON encoding (this file
// and its siblings), a framing layer classifying decoded JSON into
// requests, responses and notifications (rpc.go), a pair of side
// dispatchers that decode a (method, params) pair differently depending on
// whether the local peer is the agent or the client (dispatch.go), and a
// Connection runtime tying a transport, a dispatcher and a user-supplied
// handler together (connection.go).
package acp
