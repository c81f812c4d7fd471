package platform

import (
	"context"
	"time"
)

// AgentSpec describes a remote agent to be created. The logical Name is the
// unique key within a registry scope; once submitted for creation a spec must
// be treated as immutable.
type AgentSpec struct {
	Name         string
	Model        string
	Description  string
	Instructions string
	Tools        []ToolDescriptor
}

// WithTools returns a copy of the spec with the given tool descriptors
// appended. The receiver is not modified.
func (s AgentSpec) WithTools(tools ...ToolDescriptor) AgentSpec {
	merged := make([]ToolDescriptor, 0, len(s.Tools)+len(tools))
	merged = append(merged, s.Tools...)
	merged = append(merged, tools...)
	s.Tools = merged
	return s
}

// AgentHandle identifies a provisioned remote agent. Handles are owned by the
// registry; other components hold lookup-only references by logical name.
type AgentHandle struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ToolKind discriminates the closed set of ToolDescriptor variants.
type ToolKind string

const (
	// ToolKindConnectedAgent lets one agent delegate a sub-task to another
	// named agent.
	ToolKindConnectedAgent ToolKind = "connected_agent"
	// ToolKindSearchIndex attaches a managed search index to an agent.
	ToolKindSearchIndex ToolKind = "search_index"
)

// QueryMode selects the retrieval strategy of a search index tool.
type QueryMode string

const (
	// QueryModeSimple is plain keyword search.
	QueryModeSimple QueryMode = "simple"
	// QueryModeSemantic is semantic ranking over keyword results.
	QueryModeSemantic QueryMode = "semantic"
	// QueryModeVector is pure vector similarity search.
	QueryModeVector QueryMode = "vector"
	// QueryModeVectorSimpleHybrid combines vector and keyword retrieval.
	QueryModeVectorSimpleHybrid QueryMode = "vector_simple_hybrid"
	// QueryModeVectorSemanticHybrid combines vector retrieval with semantic ranking.
	QueryModeVectorSemanticHybrid QueryMode = "vector_semantic_hybrid"
)

// ConnectedAgentTool references another provisioned agent as a delegation
// target. The handle must exist before the descriptor is attachable.
type ConnectedAgentTool struct {
	Target      AgentHandle
	Description string
}

// SearchIndexTool embeds a managed search index connection. The core never
// queries the index itself; the tuple is passed through to the platform.
type SearchIndexTool struct {
	ConnectionID string
	IndexName    string
	QueryMode    QueryMode
	TopK         int
}

// ToolDescriptor is a tagged variant over the closed set of tool kinds.
// Exactly one of the variant fields is populated, selected by Kind.
type ToolDescriptor struct {
	Kind           ToolKind
	ConnectedAgent *ConnectedAgentTool
	SearchIndex    *SearchIndexTool
}

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks messages authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks messages authored by an agent.
	RoleAssistant Role = "assistant"
)

// Thread is a remote conversation container holding an ordered, append-only
// message history. Threads are created once per orchestration run.
type Thread struct {
	ID        string
	CreatedAt time.Time
}

// Message is one entry of a thread's ordered history.
type Message struct {
	ID        string
	ThreadID  string
	Role      Role
	Text      string
	CreatedAt time.Time
}

// RunState is the lifecycle state of a run.
type RunState string

const (
	// RunStateQueued means the run is accepted but not yet started.
	RunStateQueued RunState = "queued"
	// RunStateInProgress means the run is executing.
	RunStateInProgress RunState = "in_progress"
	// RunStateRequiresAction means the run is waiting on a tool output.
	RunStateRequiresAction RunState = "requires_action"
	// RunStateCompleted is the successful terminal state.
	RunStateCompleted RunState = "completed"
	// RunStateFailed is the platform-reported failure terminal state.
	RunStateFailed RunState = "failed"
	// RunStateExpired means the platform gave up on the run.
	RunStateExpired RunState = "expired"
	// RunStateCancelled means the run was cancelled on the platform side.
	RunStateCancelled RunState = "cancelled"
	// RunStateClientExpired is reported by the executor when its own deadline
	// elapsed while the remote state was still non-terminal. It never comes
	// from the platform.
	RunStateClientExpired RunState = "expired-client-side"
)

// IsTerminal reports whether the state ends the run lifecycle.
func (s RunState) IsTerminal() bool {
	switch s {
	case RunStateCompleted, RunStateFailed, RunStateExpired, RunStateCancelled:
		return true
	default:
		return false
	}
}

// Run is one execution of an agent against a thread. A run belongs to exactly
// one thread and one agent for its lifetime.
type Run struct {
	ID        string
	ThreadID  string
	AgentID   string
	State     RunState
	CreatedAt time.Time
}

// ToolCall is one tool invocation recorded against a run, in step order.
type ToolCall struct {
	Name      string
	Arguments string
	Output    string
}

// SortOrder controls message listing order.
type SortOrder string

const (
	// SortOrderAscending lists oldest first.
	SortOrderAscending SortOrder = "asc"
	// SortOrderDescending lists newest first.
	SortOrderDescending SortOrder = "desc"
)

// Client is the remote RPC surface consumed by the orchestration core. All
// calls are subject to network-level failure modes (timeouts, validation
// rejections, transient errors) surfaced as ordinary errors.
type Client interface {
	// ListAgents returns all currently listed agents.
	ListAgents(ctx context.Context) ([]AgentHandle, error)

	// CreateAgent provisions a new remote agent from the spec. The call is not
	// idempotent; callers must check for an existing agent by name first.
	CreateAgent(ctx context.Context, spec AgentSpec) (AgentHandle, error)

	// CreateThread opens a new conversation thread.
	CreateThread(ctx context.Context) (Thread, error)

	// CreateMessage appends a message to a thread.
	CreateMessage(ctx context.Context, threadID string, role Role, text string) (Message, error)

	// CreateRun starts a run of the agent against the thread.
	CreateRun(ctx context.Context, threadID, agentID string) (Run, error)

	// GetRun fetches the current state of a run.
	GetRun(ctx context.Context, threadID, runID string) (Run, error)

	// ListMessages returns the thread's messages in the requested creation order.
	ListMessages(ctx context.Context, threadID string, order SortOrder) ([]Message, error)

	// ListToolCalls returns the tool invocations recorded for the run, in
	// step order.
	ListToolCalls(ctx context.Context, threadID, runID string) ([]ToolCall, error)
}
