// Package tool assembles the tool descriptors that let one agent delegate to
// another agent or query a managed search index, and attaches them to agent
// specs. Composition is pure data assembly: nothing here performs remote
// calls, and creation of the resulting composite agent is deferred to the
// registry.
//
// Ordering rule: a connected-agent descriptor is only composable once the
// referenced agent handle exists. Composing or attaching with an unresolved
// handle yields *DependencyNotReadyError, a programming error in the caller's
// provisioning order rather than a transient condition.
package tool

import (
	"fmt"

	"github.com/triagemesh/triagemesh/platform"
)

// DependencyNotReadyError reports tool composition attempted before a
// referenced agent exists.
type DependencyNotReadyError struct {
	AgentName string
	Message   string
}

func (e *DependencyNotReadyError) Error() string {
	if e.AgentName != "" {
		return fmt.Sprintf("dependency not ready: agent %q: %s", e.AgentName, e.Message)
	}
	return fmt.Sprintf("dependency not ready: %s", e.Message)
}

// NewDependencyNotReadyError creates a DependencyNotReadyError.
func NewDependencyNotReadyError(agentName, message string) *DependencyNotReadyError {
	return &DependencyNotReadyError{AgentName: agentName, Message: message}
}

// ConnectedAgent builds a descriptor letting an agent delegate a sub-task to
// the agent behind handle. The handle must be resolved (non-empty ID).
func ConnectedAgent(handle platform.AgentHandle, description string) (platform.ToolDescriptor, error) {
	if handle.ID == "" {
		return platform.ToolDescriptor{}, NewDependencyNotReadyError(handle.Name, "connected-agent tool requires a resolved handle")
	}
	return platform.ToolDescriptor{
		Kind: platform.ToolKindConnectedAgent,
		ConnectedAgent: &platform.ConnectedAgentTool{
			Target:      handle,
			Description: description,
		},
	}, nil
}

// SearchIndex builds a descriptor embedding a managed search index connection.
func SearchIndex(connectionID, indexName string, queryMode platform.QueryMode, topK int) platform.ToolDescriptor {
	return platform.ToolDescriptor{
		Kind: platform.ToolKindSearchIndex,
		SearchIndex: &platform.SearchIndexTool{
			ConnectionID: connectionID,
			IndexName:    indexName,
			QueryMode:    queryMode,
			TopK:         topK,
		},
	}
}

// Attach returns a new spec with the descriptors merged in. Every
// connected-agent descriptor is re-validated so a spec can never be submitted
// with an unresolved delegation target.
func Attach(spec platform.AgentSpec, tools ...platform.ToolDescriptor) (platform.AgentSpec, error) {
	for _, d := range tools {
		switch d.Kind {
		case platform.ToolKindConnectedAgent:
			if d.ConnectedAgent == nil || d.ConnectedAgent.Target.ID == "" {
				name := ""
				if d.ConnectedAgent != nil {
					name = d.ConnectedAgent.Target.Name
				}
				return platform.AgentSpec{}, NewDependencyNotReadyError(name, "connected-agent tool references an unresolved handle")
			}
		case platform.ToolKindSearchIndex:
			if d.SearchIndex == nil {
				return platform.AgentSpec{}, fmt.Errorf("search index tool descriptor has no payload")
			}
		default:
			return platform.AgentSpec{}, fmt.Errorf("unknown tool kind %q", d.Kind)
		}
	}
	return spec.WithTools(tools...), nil
}
