package acp

import (
	"encoding/json"
	"fmt"
)

// PermissionOptionKind classifies a permission option for UI treatment.
type PermissionOptionKind string

const (
	PermissionAllowOnce  PermissionOptionKind = "allow_once"
	PermissionAllowAlways PermissionOptionKind = "allow_always"
	PermissionRejectOnce PermissionOptionKind = "reject_once"
	PermissionRejectAlways PermissionOptionKind = "reject_always"
)

// IsAllow reports whether choosing this option authorizes the tool call.
func (k PermissionOptionKind) IsAllow() bool {
	return k == PermissionAllowOnce || k == PermissionAllowAlways
}

// PermissionOption is one choice offered to the user for a pending tool
// call.
type PermissionOption struct {
	ID   PermissionOptionID    `json:"optionId"`
	Name string                `json:"name"`
	Kind PermissionOptionKind  `json:"kind"`
}

// ToolCallDetail is the tool-call summary shown alongside a permission
// request so the client can render it without a separate lookup.
type ToolCallDetail struct {
	ToolCallID ToolCallID         `json:"toolCallId"`
	Title      string             `json:"title"`
	Kind       ToolKind           `json:"kind,omitempty"`
	Content    []ToolCallContent  `json:"content,omitempty"`
	Locations  []ToolCallLocation `json:"locations,omitempty"`
}

// RequestPermissionRequest asks the client to let the user decide whether
// a pending tool call may proceed.
type RequestPermissionRequest struct {
	SessionID SessionID           `json:"sessionId"`
	ToolCall  ToolCallDetail      `json:"toolCall"`
	Options   []PermissionOption  `json:"options"`
}

// PermissionOutcomeSelected is the "selected" variant: the user chose one
// of the offered options.
type PermissionOutcomeSelected struct {
	OptionID PermissionOptionID `json:"optionId"`
}

// RequestPermissionOutcome is the tagged union of §3.4 shape 3: an
// `outcome`-tagged payload that is either "cancelled" (no payload) or
// "selected" (payload flattened).
type RequestPermissionOutcome struct {
	discriminator string
	selected      *PermissionOutcomeSelected
}

// PermissionCancelled builds the cancelled outcome.
func PermissionCancelled() RequestPermissionOutcome {
	return RequestPermissionOutcome{discriminator: "cancelled"}
}

// PermissionSelected builds the selected outcome.
func PermissionSelected(optionID PermissionOptionID) RequestPermissionOutcome {
	return RequestPermissionOutcome{discriminator: "selected", selected: &PermissionOutcomeSelected{OptionID: optionID}}
}

// IsCancelled reports whether the outcome is "cancelled".
func (o RequestPermissionOutcome) IsCancelled() bool { return o.discriminator == "cancelled" }

// GetSelected returns the selected outcome's option id and true if that is
// the held variant.
func (o RequestPermissionOutcome) GetSelected() (PermissionOptionID, bool) {
	if o.selected == nil {
		return "", false
	}
	return o.selected.OptionID, true
}

func (o RequestPermissionOutcome) MarshalJSON() ([]byte, error) {
	switch o.discriminator {
	case "cancelled":
		return json.Marshal(map[string]any{"outcome": "cancelled"})
	case "selected":
		flat := flatten(o.selected)
		flat["outcome"] = "selected"
		return json.Marshal(flat)
	default:
		return nil, fmt.Errorf("acp: empty RequestPermissionOutcome")
	}
}

func (o *RequestPermissionOutcome) UnmarshalJSON(data []byte) error {
	var tag struct {
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Outcome {
	case "cancelled":
		*o = RequestPermissionOutcome{discriminator: "cancelled"}
	case "selected":
		var v PermissionOutcomeSelected
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*o = RequestPermissionOutcome{discriminator: "selected", selected: &v}
	default:
		return invalidParams("outcome")
	}
	return nil
}

// RequestPermissionResponse carries the user's decision back to the agent.
type RequestPermissionResponse struct {
	Outcome RequestPermissionOutcome `json:"outcome"`
}
