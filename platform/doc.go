// Package platform defines the data model of the hosted agent/conversation
// service (agents, threads, messages, runs) and the narrow Client interface
// the orchestration core consumes. The core never talks to the remote service
// directly; everything flows through Client so that provisioning, execution
// and evaluation can be tested against in-memory fakes.
//
// Design principles:
//   - Value types are plain data – no behavior beyond small helpers
//   - ToolDescriptor is a closed tagged variant, matched exhaustively by kind
//   - Run states form a terminal-state lifecycle (IsTerminal)
//   - Failure modes of the remote surface stay ordinary Go errors; the
//     packages above (registry, executor) translate them into their own
//     taxonomy
package platform
