package transport

import (
	"context"

	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/wire"
)

// Inbound is a validated message handed to an agent.
type Inbound struct {
	From        core.Peer
	Kind        wire.Kind
	Instruction string
	Extra       string
	// ConnID correlates the message with the Ear's log lines.
	ConnID string
}

// Handler consumes validated inbound messages. Hear runs on the connection's
// goroutine; the connection is closed once it returns.
type Handler interface {
	Hear(ctx context.Context, msg Inbound)
}

// HandlerFunc is a functional adapter for Handler.
type HandlerFunc func(ctx context.Context, msg Inbound)

// Hear implements Handler.
func (f HandlerFunc) Hear(ctx context.Context, msg Inbound) { f(ctx, msg) }

// Resolver validates sender names against the agent's known peers.
// *core.PeerTable satisfies it.
type Resolver interface {
	Lookup(name string) (core.Peer, bool)
}
