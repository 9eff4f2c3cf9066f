package acp

import "encoding/json"

// StopReason is the enum closing out a prompt turn. "end_turn" is its
// default value and is elided from encoded output per §4.1's
// default-value-elision rule.
type StopReason string

const (
	StopEndTurn            StopReason = "end_turn"
	StopMaxTokens          StopReason = "max_tokens"
	StopMaxTurnRequests    StopReason = "max_turn_requests"
	StopRefusal            StopReason = "refusal"
	StopCancelled          StopReason = "cancelled"
)

// isDefault implements §4.1's default-value-elision rule for StopReason.
func (s StopReason) isDefault() bool { return s == StopEndTurn || s == "" }

// PromptRequest carries one user turn for the agent to respond to.
type PromptRequest struct {
	SessionID SessionID      `json:"sessionId"`
	Prompt    []ContentBlock `json:"prompt"`
	Meta      map[string]any `json:"_meta,omitempty"`
}

// PromptResponse closes out a prompt turn with the reason it stopped.
type PromptResponse struct {
	StopReason StopReason
	Meta       map[string]any
}

type promptResponseWire struct {
	StopReason StopReason     `json:"stopReason,omitempty"`
	Meta       map[string]any `json:"_meta,omitempty"`
}

func (r PromptResponse) MarshalJSON() ([]byte, error) {
	w := promptResponseWire{Meta: r.Meta}
	if !r.StopReason.isDefault() {
		w.StopReason = r.StopReason
	}
	return json.Marshal(w)
}

func (r *PromptResponse) UnmarshalJSON(data []byte) error {
	var w promptResponseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.StopReason = w.StopReason
	if r.StopReason == "" {
		r.StopReason = StopEndTurn
	}
	r.Meta = w.Meta
	return nil
}

// CancelNotification asks the agent to stop work on a session's current
// prompt turn as soon as practical. It does not abort any RPC already in
// flight (§5).
type CancelNotification struct {
	SessionID SessionID `json:"sessionId"`
}
