package acp

import "encoding/json"

// NewSessionRequest asks the agent to start a new session rooted at Cwd,
// optionally connecting one or more MCP servers on the session's behalf.
type NewSessionRequest struct {
	Cwd        string         `json:"cwd"`
	McpServers []McpServer    `json:"mcpServers,omitempty"`
	Meta       map[string]any `json:"_meta,omitempty"`
}

// NewSessionResponse carries the agent-allocated session id.
type NewSessionResponse struct {
	SessionID SessionID      `json:"sessionId"`
	Modes     *SessionModeState `json:"modes,omitempty"`
	Meta      map[string]any `json:"_meta,omitempty"`
}

// LoadSessionRequest asks the agent to resume a previously created
// session, replaying its history to the client via session/update
// notifications before the response is sent.
type LoadSessionRequest struct {
	SessionID  SessionID      `json:"sessionId"`
	Cwd        string         `json:"cwd"`
	McpServers []McpServer    `json:"mcpServers,omitempty"`
	Meta       map[string]any `json:"_meta,omitempty"`
}

// LoadSessionResponse carries the loaded session's mode state, when the
// agent reports one.
type LoadSessionResponse struct {
	Modes *SessionModeState `json:"modes,omitempty"`
	Meta  map[string]any    `json:"_meta,omitempty"`
}

// SessionMode names one operating mode a session can be switched into
// (e.g. "ask", "code", "architect").
type SessionMode struct {
	ID          SessionModeID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
}

// SessionModeState is the set of modes a session supports and the one
// currently active.
type SessionModeState struct {
	CurrentModeID SessionModeID `json:"currentModeId"`
	AvailableModes []SessionMode `json:"availableModes,omitempty"`
}

// SetSessionModeRequest switches a session's active mode.
type SetSessionModeRequest struct {
	SessionID SessionID     `json:"sessionId"`
	ModeID    SessionModeID `json:"modeId"`
}

// SetSessionModeResponse is empty on success.
type SetSessionModeResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// SessionInfoUpdate is a partial update of a session's descriptive
// metadata; both fields use the three-state optional so a caller can
// distinguish "leave unchanged" from "clear" from "set" (§3.5, §8
// scenario 3).
type SessionInfoUpdate struct {
	Title     Optional[string]
	UpdatedAt Optional[string]
}

func (u SessionInfoUpdate) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if err := setOptional(fields, "title", u.Title); err != nil {
		return nil, err
	}
	if err := setOptional(fields, "updatedAt", u.UpdatedAt); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (u *SessionInfoUpdate) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	title, err := decodeOptional[string](fields, "title")
	if err != nil {
		return invalidParams("title")
	}
	updatedAt, err := decodeOptional[string](fields, "updatedAt")
	if err != nil {
		return invalidParams("updatedAt")
	}
	u.Title = title
	u.UpdatedAt = updatedAt
	return nil
}

// ConfigOptionChoice is one selectable value of a session config option.
type ConfigOptionChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ConfigOptionGroup is a named cluster of ConfigOptionChoice values.
type ConfigOptionGroup struct {
	Group   string                `json:"group"`
	Options []ConfigOptionChoice  `json:"options"`
}

// ConfigOptionValues is the untagged union of §3.4 shape 5: a list of
// choices, grouped or ungrouped, distinguished structurally by whether the
// first element carries a `group` key.
type ConfigOptionValues struct {
	grouped   []ConfigOptionGroup
	ungrouped []ConfigOptionChoice
}

// NewGroupedConfigOptionValues wraps a grouped choice list.
func NewGroupedConfigOptionValues(groups []ConfigOptionGroup) ConfigOptionValues {
	return ConfigOptionValues{grouped: groups}
}

// NewUngroupedConfigOptionValues wraps a flat choice list.
func NewUngroupedConfigOptionValues(choices []ConfigOptionChoice) ConfigOptionValues {
	return ConfigOptionValues{ungrouped: choices}
}

// IsGrouped reports whether the held values are grouped.
func (v ConfigOptionValues) IsGrouped() bool { return v.grouped != nil }

// Grouped returns the grouped choice list and true if the union holds one.
func (v ConfigOptionValues) Grouped() ([]ConfigOptionGroup, bool) {
	return v.grouped, v.grouped != nil
}

// Ungrouped returns the flat choice list and true if the union holds one.
func (v ConfigOptionValues) Ungrouped() ([]ConfigOptionChoice, bool) {
	return v.ungrouped, v.ungrouped != nil
}

func (v ConfigOptionValues) MarshalJSON() ([]byte, error) {
	if v.grouped != nil {
		return json.Marshal(v.grouped)
	}
	return json.Marshal(v.ungrouped)
}

func (v *ConfigOptionValues) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		v.ungrouped = []ConfigOptionChoice{}
		return nil
	}
	var probe struct {
		Group string `json:"group"`
	}
	if err := json.Unmarshal(raw[0], &probe); err != nil {
		return err
	}
	if probe.Group != "" {
		var groups []ConfigOptionGroup
		if err := json.Unmarshal(data, &groups); err != nil {
			return err
		}
		v.grouped = groups
		return nil
	}
	var choices []ConfigOptionChoice
	if err := json.Unmarshal(data, &choices); err != nil {
		return err
	}
	v.ungrouped = choices
	return nil
}

// SessionConfigOption describes one configurable option of a session,
// with its current value and the set of values it can take.
type SessionConfigOption struct {
	ID      string              `json:"id"`
	Label   string              `json:"label"`
	Current string              `json:"current,omitempty"`
	Values  ConfigOptionValues  `json:"values"`
}

// SetSessionConfigOptionRequest (unstable) sets one config option's value.
type SetSessionConfigOptionRequest struct {
	SessionID SessionID `json:"sessionId"`
	OptionID  string    `json:"optionId"`
	ValueID   string    `json:"valueId"`
}

// SetSessionConfigOptionResponse is empty on success.
type SetSessionConfigOptionResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// SetSessionModelRequest (unstable) sets a session's active model.
type SetSessionModelRequest struct {
	SessionID SessionID `json:"sessionId"`
	ModelID   string    `json:"modelId"`
}

// SetSessionModelResponse is empty on success.
type SetSessionModelResponse struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// ListSessionsRequest (unstable) lists sessions known to the agent.
type ListSessionsRequest struct {
	Meta map[string]any `json:"_meta,omitempty"`
}

// SessionSummary (unstable) is one entry of ListSessionsResponse.
type SessionSummary struct {
	SessionID SessionID `json:"sessionId"`
	Cwd       string    `json:"cwd"`
	Title     string    `json:"title,omitempty"`
}

// ListSessionsResponse (unstable) enumerates the agent's known sessions.
type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions,omitempty"`
}

// ForkSessionRequest (unstable) creates a new session that branches from
// an existing one's history.
type ForkSessionRequest struct {
	SessionID SessionID `json:"sessionId"`
}

// ForkSessionResponse (unstable) carries the newly forked session's id.
type ForkSessionResponse struct {
	SessionID SessionID `json:"sessionId"`
}

// ResumeSessionRequest (unstable) is a lighter-weight alternative to
// session/load for an agent that never evicted the session from memory.
type ResumeSessionRequest struct {
	SessionID SessionID `json:"sessionId"`
}

// ResumeSessionResponse (unstable) carries the resumed session's mode
// state, when the agent reports one.
type ResumeSessionResponse struct {
	Modes *SessionModeState `json:"modes,omitempty"`
}
