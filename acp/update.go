package acp

import (
	"encoding/json"
	"fmt"
)

// ToolKind classifies a tool call for display purposes. "other" is its
// default value.
type ToolKind string

const (
	ToolKindRead       ToolKind = "read"
	ToolKindEdit       ToolKind = "edit"
	ToolKindDelete     ToolKind = "delete"
	ToolKindMove       ToolKind = "move"
	ToolKindSearch     ToolKind = "search"
	ToolKindExecute    ToolKind = "execute"
	ToolKindThink      ToolKind = "think"
	ToolKindFetch      ToolKind = "fetch"
	ToolKindSwitchMode ToolKind = "switch_mode"
	ToolKindOther      ToolKind = "other"
)

func (k ToolKind) isDefault() bool { return k == ToolKindOther || k == "" }

// ToolCallStatus tracks a tool call's lifecycle. "pending" is its default
// value.
type ToolCallStatus string

const (
	ToolCallPending    ToolCallStatus = "pending"
	ToolCallInProgress ToolCallStatus = "in_progress"
	ToolCallCompleted  ToolCallStatus = "completed"
	ToolCallFailed     ToolCallStatus = "failed"
)

func (s ToolCallStatus) isDefault() bool { return s == ToolCallPending || s == "" }

// ToolCallLocation names a file (and optionally a line) a tool call
// touches, so a client can offer to navigate there.
type ToolCallLocation struct {
	Path string `json:"path"`
	Line *int   `json:"line,omitempty"`
}

// TextToolCallContent is the "content" variant of ToolCallContent: an
// inline content block produced by the tool.
type TextToolCallContent struct {
	Content ContentBlock `json:"content"`
}

// DiffToolCallContent is the "diff" variant: a file edit the tool made.
type DiffToolCallContent struct {
	Path    string `json:"path"`
	OldText string `json:"oldText,omitempty"`
	NewText string `json:"newText"`
}

// TerminalToolCallContent is the "terminal" variant: a reference to a
// terminal the client created on the agent's behalf, rather than inline
// output (§3.5).
type TerminalToolCallContent struct {
	TerminalID TerminalID `json:"terminalId"`
}

// ToolCallContent is the tagged union of §3.4 shape 4's sibling for tool
// output: `type`-tagged content/diff/terminal, flattened.
type ToolCallContent struct {
	discriminator string
	content       *TextToolCallContent
	diff          *DiffToolCallContent
	terminal      *TerminalToolCallContent
}

// NewContentToolCallContent wraps an inline content block.
func NewContentToolCallContent(v TextToolCallContent) ToolCallContent {
	return ToolCallContent{discriminator: "content", content: &v}
}

// NewDiffToolCallContent wraps a file diff.
func NewDiffToolCallContent(v DiffToolCallContent) ToolCallContent {
	return ToolCallContent{discriminator: "diff", diff: &v}
}

// NewTerminalToolCallContent wraps a terminal reference.
func NewTerminalToolCallContent(v TerminalToolCallContent) ToolCallContent {
	return ToolCallContent{discriminator: "terminal", terminal: &v}
}

// GetContent returns the content variant and true if that is the held variant.
func (c ToolCallContent) GetContent() (TextToolCallContent, bool) {
	if c.content == nil {
		return TextToolCallContent{}, false
	}
	return *c.content, true
}

// GetDiff returns the diff variant and true if that is the held variant.
func (c ToolCallContent) GetDiff() (DiffToolCallContent, bool) {
	if c.diff == nil {
		return DiffToolCallContent{}, false
	}
	return *c.diff, true
}

// GetTerminal returns the terminal variant and true if that is the held variant.
func (c ToolCallContent) GetTerminal() (TerminalToolCallContent, bool) {
	if c.terminal == nil {
		return TerminalToolCallContent{}, false
	}
	return *c.terminal, true
}

func (c ToolCallContent) MarshalJSON() ([]byte, error) {
	var flat map[string]any
	switch c.discriminator {
	case "content":
		flat = flatten(c.content)
	case "diff":
		flat = flatten(c.diff)
	case "terminal":
		flat = flatten(c.terminal)
	default:
		return nil, fmt.Errorf("acp: empty ToolCallContent")
	}
	flat["type"] = c.discriminator
	return json.Marshal(flat)
}

func (c *ToolCallContent) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case "content":
		var v TextToolCallContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ToolCallContent{discriminator: "content", content: &v}
	case "diff":
		var v DiffToolCallContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ToolCallContent{discriminator: "diff", diff: &v}
	case "terminal":
		var v TerminalToolCallContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ToolCallContent{discriminator: "terminal", terminal: &v}
	default:
		return invalidParams("type")
	}
	return nil
}

// ToolCall is the full record of one tool invocation (§3.5).
type ToolCall struct {
	ToolCallID ToolCallID         `json:"toolCallId"`
	Title      string             `json:"title"`
	Kind       ToolKind           `json:"kind,omitempty"`
	Status     ToolCallStatus     `json:"status,omitempty"`
	Content    []ToolCallContent  `json:"content,omitempty"`
	Locations  []ToolCallLocation `json:"locations,omitempty"`
	RawInput   json.RawMessage    `json:"rawInput,omitempty"`
	RawOutput  json.RawMessage    `json:"rawOutput,omitempty"`
}

// toolCallWire is ToolCall's wire shape with default-elided enum fields;
// MarshalJSON on ToolCall routes through it so "other"
// and "pending" never hit the wire (§4.1 default-value elision).
type toolCallWire struct {
	ToolCallID ToolCallID         `json:"toolCallId,omitempty"`
	Title      string             `json:"title,omitempty"`
	Kind       ToolKind           `json:"kind,omitempty"`
	Status     ToolCallStatus     `json:"status,omitempty"`
	Content    []ToolCallContent  `json:"content,omitempty"`
	Locations  []ToolCallLocation `json:"locations,omitempty"`
	RawInput   json.RawMessage    `json:"rawInput,omitempty"`
	RawOutput  json.RawMessage    `json:"rawOutput,omitempty"`
}

func (t ToolCall) MarshalJSON() ([]byte, error) {
	w := toolCallWire{
		ToolCallID: t.ToolCallID,
		Title:      t.Title,
		Content:    t.Content,
		Locations:  t.Locations,
		RawInput:   t.RawInput,
		RawOutput:  t.RawOutput,
	}
	if !t.Kind.isDefault() {
		w.Kind = t.Kind
	}
	if !t.Status.isDefault() {
		w.Status = t.Status
	}
	return json.Marshal(w)
}

func (t *ToolCall) UnmarshalJSON(data []byte) error {
	var w toolCallWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ToolCallID == "" {
		return invalidParams("toolCallId")
	}
	*t = ToolCall{
		ToolCallID: w.ToolCallID,
		Title:      w.Title,
		Kind:       w.Kind,
		Status:     w.Status,
		Content:    w.Content,
		Locations:  w.Locations,
		RawInput:   w.RawInput,
		RawOutput:  w.RawOutput,
	}
	if t.Kind == "" {
		t.Kind = ToolKindOther
	}
	if t.Status == "" {
		t.Status = ToolCallPending
	}
	return nil
}

// ToolCallUpdate is a partial mutation of a previously announced ToolCall:
// every field is optional, and a terminal update may reference a terminal
// by id instead of carrying inline content (§3.5).
type ToolCallUpdate struct {
	ToolCallID ToolCallID         `json:"toolCallId"`
	Title      string             `json:"title,omitempty"`
	Kind       ToolKind           `json:"kind,omitempty"`
	Status     ToolCallStatus     `json:"status,omitempty"`
	Content    []ToolCallContent  `json:"content,omitempty"`
	Locations  []ToolCallLocation `json:"locations,omitempty"`
	RawInput   json.RawMessage    `json:"rawInput,omitempty"`
	RawOutput  json.RawMessage    `json:"rawOutput,omitempty"`
}

// PlanEntryPriority ranks a plan entry relative to its siblings.
type PlanEntryPriority string

const (
	PlanPriorityHigh   PlanEntryPriority = "high"
	PlanPriorityMedium PlanEntryPriority = "medium"
	PlanPriorityLow    PlanEntryPriority = "low"
)

// PlanEntryStatus tracks a plan entry's progress.
type PlanEntryStatus string

const (
	PlanEntryPending    PlanEntryStatus = "pending"
	PlanEntryInProgress PlanEntryStatus = "in_progress"
	PlanEntryCompleted  PlanEntryStatus = "completed"
)

// PlanEntry is one step of an agent's plan.
type PlanEntry struct {
	Content  string            `json:"content"`
	Priority PlanEntryPriority `json:"priority"`
	Status   PlanEntryStatus   `json:"status"`
}

// Plan is an ordered list of plan entries (§3.5).
type Plan struct {
	Entries []PlanEntry `json:"entries"`
}

// Command names one slash-command-like action an agent currently accepts.
type Command struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Input       *CommandInput `json:"input,omitempty"`
}

// CommandInput is the untagged union of §3.4 shape 5 for a command's
// input shape, recognized structurally by the presence of `hint`.
type CommandInput struct {
	Hint string `json:"hint"`
}

// UsageUpdate reports the model-token usage incurred by the turn so far,
// supplementing the canonical session-update variants with the token
// accounting a real agent loop tracks per turn.
type UsageUpdate struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// sessionUpdateVariant groups the ten payload shapes a SessionUpdate can
// flatten; only one field is ever populated in a given value.
type sessionUpdateVariant struct {
	discriminator        string
	userMessageChunk      *ContentBlock
	agentMessageChunk     *ContentBlock
	agentThoughtChunk     *ContentBlock
	toolCall              *ToolCall
	toolCallUpdate        *ToolCallUpdate
	plan                  *Plan
	availableCommandsUpdate []Command
	currentModeUpdate     *SessionModeID
	sessionInfoUpdate     *SessionInfoUpdate
	usageUpdate           *UsageUpdate
}

// SessionUpdate is the tagged union of §3.4 shape 2: a `sessionUpdate`-
// tagged payload carrying one of ten variants, flattened into the outer
// object.
type SessionUpdate struct {
	v sessionUpdateVariant
}

func newSessionUpdate(v sessionUpdateVariant) SessionUpdate { return SessionUpdate{v: v} }

// UserMessageChunkUpdate builds a SessionUpdate echoing part of the user's
// message back (used when the client streams its own prompt for display).
func UserMessageChunkUpdate(content ContentBlock) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "user_message_chunk", userMessageChunk: &content})
}

// AgentMessageChunkUpdate builds a SessionUpdate streaming part of the
// agent's reply.
func AgentMessageChunkUpdate(content ContentBlock) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "agent_message_chunk", agentMessageChunk: &content})
}

// AgentThoughtChunkUpdate builds a SessionUpdate streaming part of the
// agent's reasoning, separate from its reply.
func AgentThoughtChunkUpdate(content ContentBlock) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "agent_thought_chunk", agentThoughtChunk: &content})
}

// ToolCallUpdateStart builds a SessionUpdate announcing a new tool call.
func ToolCallUpdateStart(call ToolCall) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "tool_call", toolCall: &call})
}

// ToolCallUpdateProgress builds a SessionUpdate mutating an existing tool call.
func ToolCallUpdateProgress(update ToolCallUpdate) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "tool_call_update", toolCallUpdate: &update})
}

// PlanUpdate builds a SessionUpdate replacing the agent's current plan.
func PlanUpdate(plan Plan) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "plan", plan: &plan})
}

// AvailableCommandsUpdate builds a SessionUpdate announcing the commands
// currently accepted for a session.
func AvailableCommandsUpdate(commands []Command) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "available_commands_update", availableCommandsUpdate: commands})
}

// CurrentModeUpdate builds a SessionUpdate announcing a session's mode
// changed (e.g. in response to session/set_mode).
func CurrentModeUpdate(modeID SessionModeID) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "current_mode_update", currentModeUpdate: &modeID})
}

// SessionInfoUpdateUpdate builds a SessionUpdate carrying a partial change
// to the session's title/updated_at metadata.
func SessionInfoUpdateUpdate(info SessionInfoUpdate) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "session_info_update", sessionInfoUpdate: &info})
}

// TokenUsageUpdate builds a SessionUpdate reporting model token usage.
func TokenUsageUpdate(usage UsageUpdate) SessionUpdate {
	return newSessionUpdate(sessionUpdateVariant{discriminator: "usage_update", usageUpdate: &usage})
}

// Kind returns the update's discriminator.
func (u SessionUpdate) Kind() string { return u.v.discriminator }

// GetUserMessageChunk returns the variant's content block, if held.
func (u SessionUpdate) GetUserMessageChunk() (ContentBlock, bool) {
	if u.v.userMessageChunk == nil {
		return ContentBlock{}, false
	}
	return *u.v.userMessageChunk, true
}

// GetAgentMessageChunk returns the variant's content block, if held.
func (u SessionUpdate) GetAgentMessageChunk() (ContentBlock, bool) {
	if u.v.agentMessageChunk == nil {
		return ContentBlock{}, false
	}
	return *u.v.agentMessageChunk, true
}

// GetAgentThoughtChunk returns the variant's content block, if held.
func (u SessionUpdate) GetAgentThoughtChunk() (ContentBlock, bool) {
	if u.v.agentThoughtChunk == nil {
		return ContentBlock{}, false
	}
	return *u.v.agentThoughtChunk, true
}

// GetToolCall returns the variant's tool call, if held.
func (u SessionUpdate) GetToolCall() (ToolCall, bool) {
	if u.v.toolCall == nil {
		return ToolCall{}, false
	}
	return *u.v.toolCall, true
}

// GetToolCallUpdate returns the variant's tool call update, if held.
func (u SessionUpdate) GetToolCallUpdate() (ToolCallUpdate, bool) {
	if u.v.toolCallUpdate == nil {
		return ToolCallUpdate{}, false
	}
	return *u.v.toolCallUpdate, true
}

// GetPlan returns the variant's plan, if held.
func (u SessionUpdate) GetPlan() (Plan, bool) {
	if u.v.plan == nil {
		return Plan{}, false
	}
	return *u.v.plan, true
}

// GetAvailableCommandsUpdate returns the variant's command list, if held.
func (u SessionUpdate) GetAvailableCommandsUpdate() ([]Command, bool) {
	return u.v.availableCommandsUpdate, u.v.discriminator == "available_commands_update"
}

// GetCurrentModeUpdate returns the variant's mode id, if held.
func (u SessionUpdate) GetCurrentModeUpdate() (SessionModeID, bool) {
	if u.v.currentModeUpdate == nil {
		return "", false
	}
	return *u.v.currentModeUpdate, true
}

// GetSessionInfoUpdate returns the variant's partial session info, if held.
func (u SessionUpdate) GetSessionInfoUpdate() (SessionInfoUpdate, bool) {
	if u.v.sessionInfoUpdate == nil {
		return SessionInfoUpdate{}, false
	}
	return *u.v.sessionInfoUpdate, true
}

// GetTokenUsageUpdate returns the variant's usage report, if held.
func (u SessionUpdate) GetTokenUsageUpdate() (UsageUpdate, bool) {
	if u.v.usageUpdate == nil {
		return UsageUpdate{}, false
	}
	return *u.v.usageUpdate, true
}

func (u SessionUpdate) MarshalJSON() ([]byte, error) {
	var flat map[string]any
	switch u.v.discriminator {
	case "user_message_chunk":
		flat = map[string]any{"content": u.v.userMessageChunk}
	case "agent_message_chunk":
		flat = map[string]any{"content": u.v.agentMessageChunk}
	case "agent_thought_chunk":
		flat = map[string]any{"content": u.v.agentThoughtChunk}
	case "tool_call":
		flat = flatten(u.v.toolCall)
	case "tool_call_update":
		flat = flatten(u.v.toolCallUpdate)
	case "plan":
		flat = flatten(u.v.plan)
	case "available_commands_update":
		flat = map[string]any{"availableCommands": u.v.availableCommandsUpdate}
	case "current_mode_update":
		flat = map[string]any{"currentModeId": u.v.currentModeUpdate}
	case "session_info_update":
		flat = flatten(u.v.sessionInfoUpdate)
	case "usage_update":
		flat = flatten(u.v.usageUpdate)
	default:
		return nil, fmt.Errorf("acp: empty SessionUpdate")
	}
	flat["sessionUpdate"] = u.v.discriminator
	return json.Marshal(flat)
}

func (u *SessionUpdate) UnmarshalJSON(data []byte) error {
	var tag struct {
		SessionUpdate string `json:"sessionUpdate"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.SessionUpdate {
	case "user_message_chunk":
		var v struct {
			Content ContentBlock `json:"content"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, userMessageChunk: &v.Content}}
	case "agent_message_chunk":
		var v struct {
			Content ContentBlock `json:"content"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, agentMessageChunk: &v.Content}}
	case "agent_thought_chunk":
		var v struct {
			Content ContentBlock `json:"content"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, agentThoughtChunk: &v.Content}}
	case "tool_call":
		var v ToolCall
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, toolCall: &v}}
	case "tool_call_update":
		var v ToolCallUpdate
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, toolCallUpdate: &v}}
	case "plan":
		var v Plan
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, plan: &v}}
	case "available_commands_update":
		var v struct {
			AvailableCommands []Command `json:"availableCommands"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, availableCommandsUpdate: v.AvailableCommands}}
	case "current_mode_update":
		var v struct {
			CurrentModeID SessionModeID `json:"currentModeId"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, currentModeUpdate: &v.CurrentModeID}}
	case "session_info_update":
		var v SessionInfoUpdate
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, sessionInfoUpdate: &v}}
	case "usage_update":
		var v UsageUpdate
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*u = SessionUpdate{v: sessionUpdateVariant{discriminator: tag.SessionUpdate, usageUpdate: &v}}
	default:
		return invalidParams("sessionUpdate")
	}
	return nil
}

// SessionNotification is the payload of the session/update notification:
// one SessionUpdate addressed to a particular session.
type SessionNotification struct {
	SessionID SessionID      `json:"sessionId"`
	Update    SessionUpdate  `json:"update"`
	Meta      map[string]any `json:"_meta,omitempty"`
}
