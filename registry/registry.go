// Package registry resolves logical agent names to remote agent handles,
// creating agents on first use. Provisioning is idempotent by name-presence
// only: a spec whose name already exists remotely is returned as-is, even if
// its instructions differ. Auto-updating an existing agent is an explicit
// non-goal, matching the remote surface, which offers no content-addressed
// idempotency.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/triagemesh/triagemesh/logging"
	"github.com/triagemesh/triagemesh/platform"
)

// ProvisioningError reports a remote create call rejecting an agent spec.
// It is fatal for the orchestration run and is not retried. Transport
// failures on lookup paths are plain wrapped errors, not ProvisioningErrors.
type ProvisioningError struct {
	AgentName string
	Cause     error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning agent %q failed: %v", e.AgentName, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ProvisioningError) Unwrap() error { return e.Cause }

// NewProvisioningError creates a ProvisioningError for the named agent.
func NewProvisioningError(agentName string, cause error) *ProvisioningError {
	return &ProvisioningError{AgentName: agentName, Cause: cause}
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives provisioning events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry owns the name→handle mapping for one registry scope. Remote
// lookup-by-name is not atomic relative to creation, so Ensure serializes
// first-time provisioning per logical name; concurrent Ensure calls for the
// same name cannot create duplicate remote agents through this registry.
type Registry struct {
	client platform.Client
	logger logging.Logger

	mu      sync.Mutex
	handles map[string]platform.AgentHandle
	creates map[string]*sync.Mutex
}

// New constructs a Registry over the given platform client.
func New(client platform.Client, optFns ...func(o *Options)) *Registry {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		client:  client,
		logger:  opts.Logger,
		handles: make(map[string]platform.AgentHandle),
		creates: make(map[string]*sync.Mutex),
	}
}

// Prime seeds the registry cache from a listing of existing remote agents.
// Later entries win when the listing contains duplicate names.
func (r *Registry) Prime(handles []platform.AgentHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handles {
		r.handles[h.Name] = h
	}
	r.logger.Info("registry primed", "agent_count", len(handles))
}

// Lookup returns the cached handle for a logical name, if any. It never
// touches the remote surface.
func (r *Registry) Lookup(name string) (platform.AgentHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[name]
	return h, ok
}

// Ensure resolves the spec's logical name to a remote agent handle, creating
// the agent if it does not exist yet. A name hit returns the existing handle
// without a create call and without updating the remote agent; changed
// instructions for an existing name are silently ignored. A rejected create
// call surfaces as *ProvisioningError carrying the logical name and cause.
func (r *Registry) Ensure(ctx context.Context, spec platform.AgentSpec) (platform.AgentHandle, error) {
	nameMu := r.createLock(spec.Name)
	nameMu.Lock()
	defer nameMu.Unlock()

	if h, ok := r.Lookup(spec.Name); ok {
		r.logger.Info("found existing agent", "agent_name", h.Name, "agent_id", h.ID)
		return h, nil
	}

	// Cache miss: consult the live listing before creating so agents
	// provisioned outside this registry are reused, not duplicated.
	listed, err := r.client.ListAgents(ctx)
	if err != nil {
		return platform.AgentHandle{}, fmt.Errorf("list agents for %q: %w", spec.Name, err)
	}
	r.Prime(listed)
	if h, ok := r.Lookup(spec.Name); ok {
		r.logger.Info("found existing agent", "agent_name", h.Name, "agent_id", h.ID)
		return h, nil
	}

	r.logger.Info("creating new agent", "agent_name", spec.Name, "model", spec.Model)
	h, err := r.client.CreateAgent(ctx, spec)
	if err != nil {
		return platform.AgentHandle{}, NewProvisioningError(spec.Name, err)
	}

	r.mu.Lock()
	r.handles[h.Name] = h
	r.mu.Unlock()

	r.logger.Debug("agent created", "agent_name", h.Name, "agent_id", h.ID)

	return h, nil
}

// createLock returns the per-name mutex guarding first-time provisioning.
func (r *Registry) createLock(name string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	mu, ok := r.creates[name]
	if !ok {
		mu = &sync.Mutex{}
		r.creates[name] = mu
	}
	return mu
}
