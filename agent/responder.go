package agent

import (
	"context"

	"github.com/hupe1980/agentsociety/core"
)

// Responder reacts to inbound talk. Respond runs on the connection's
// goroutine, so concurrent messages may call it concurrently.
type Responder interface {
	Respond(ctx context.Context, self *Agent, from core.Peer, message string, params core.TalkParams)
}

// ResponderFunc is a functional adapter for Responder.
type ResponderFunc func(ctx context.Context, self *Agent, from core.Peer, message string, params core.TalkParams)

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, self *Agent, from core.Peer, message string, params core.TalkParams) {
	f(ctx, self, from, message, params)
}

// logResponder is used when no Responder is configured.
type logResponder struct{}

func (logResponder) Respond(_ context.Context, self *Agent, from core.Peer, message string, params core.TalkParams) {
	self.logger.Info("talk received", "from", from.Name(), "message", message, "attachments", params.String())
}
