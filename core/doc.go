// Package core provides the foundational domain types shared by the wire,
// transport, deliberation and agent layers:
//
//   - Peers and the per-agent peer table used to resolve senders
//   - Action kinds, actions and plans rendered into deliberation prompts
//   - Message formatting for received talk and greeting frames
//   - The Error type and the sentinel errors every layer wraps
//
// The package has no knowledge of sockets or models. Concrete behavior lives
// in transport, deliberation and agent.
package core
