package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/deliberation"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/tool"
	"github.com/hupe1980/agentsociety/transport"
	"github.com/hupe1980/agentsociety/wire"
)

// ErrNoBrain is returned by Optimize and Review when the agent was built
// without a reasoning capability.
var ErrNoBrain = errors.New("agent: no brain configured")

// Options configures an Agent.
type Options struct {
	// Terminal agents bind an Ear but never run its accept loop.
	Terminal  bool
	Brain     brain.Brain
	Responder Responder
	Logger    logging.Logger
}

// Agent owns exactly one Ear and one Mouth. Peers and tools may be added
// after construction; lookups are safe for concurrent use.
type Agent struct {
	name        string
	instruction string
	terminal    bool

	peers *core.PeerTable
	tools *tool.Table

	ear   *transport.Ear
	mouth *transport.Mouth

	brain     brain.Brain
	responder Responder
	logger    logging.Logger

	cancel    context.CancelFunc
	serveErr  chan error
	closeOnce sync.Once
}

var (
	_ core.Peer           = (*Agent)(nil)
	_ transport.Handler   = (*Agent)(nil)
	_ deliberation.Roster = (*Agent)(nil)
)

// New builds an agent listening on the first free port of cfg's range.
func New(name, instruction string, cfg config.Network, optFns ...func(o *Options)) (*Agent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("agent: name is required")
	}

	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{
		name:        name,
		instruction: instruction,
		terminal:    opts.Terminal,
		peers:       core.NewPeerTable(),
		tools:       tool.NewTable(),
		brain:       opts.Brain,
		responder:   opts.Responder,
		logger:      logging.With(logging.OrNoOp(opts.Logger), "agent", name),
	}
	if a.responder == nil {
		a.responder = logResponder{}
	}

	mouth, err := transport.NewMouth(name, cfg, func(o *transport.MouthOptions) {
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	a.mouth = mouth

	ear, err := transport.NewEar(cfg, a.peers, a, func(o *transport.EarOptions) {
		o.Name = name
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	a.ear = ear

	if !a.terminal {
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		a.serveErr = make(chan error, 1)
		go func() { a.serveErr <- ear.Serve(ctx) }()
	}

	a.logger.Info("agent started", "port", ear.Port(), "terminal", a.terminal)
	return a, nil
}

// Name implements core.Peer.
func (a *Agent) Name() string { return a.name }

// Instruction implements core.Peer.
func (a *Agent) Instruction() string { return a.instruction }

// Port implements core.Peer.
func (a *Agent) Port() int { return a.ear.Port() }

// Terminal reports whether the agent runs without an accept loop.
func (a *Agent) Terminal() bool { return a.terminal }

// Peers returns the agent's peer table.
func (a *Agent) Peers() *core.PeerTable { return a.peers }

// Tools returns the agent's tool table.
func (a *Agent) Tools() *tool.Table { return a.tools }

// Befriend adds p to the peer table. Messages from p are accepted from now
// on and p becomes addressable by Talk.
func (a *Agent) Befriend(p core.Peer) { a.peers.Add(p) }

// AddTool adds t to the tool table.
func (a *Agent) AddTool(t tool.Tool) { a.tools.Add(t) }

// Talk sends a default-kind message to the named peer.
func (a *Agent) Talk(ctx context.Context, peer, instruction, extra string) error {
	return a.send(ctx, peer, wire.KindDefault, instruction, extra)
}

// Greet introduces the agent to the named peer, typically its inviter.
func (a *Agent) Greet(ctx context.Context, peer string) error {
	return a.send(ctx, peer, wire.KindGreeting, "", "")
}

func (a *Agent) send(ctx context.Context, peer string, kind wire.Kind, instruction, extra string) error {
	p, ok := a.peers.Lookup(peer)
	if !ok {
		return core.Errorf("agent.talk", core.ErrUnknownPeer, "%s has no friend named %q", a.name, peer)
	}
	return a.mouth.Send(ctx, p.Port(), kind, instruction, extra)
}

// Wait blocks until any peer connects to the agent. It is meant for
// terminal agents waiting for the final response.
func (a *Agent) Wait(ctx context.Context) error { return a.ear.Wait(ctx) }

// Hear implements transport.Handler. Greetings are rendered as an
// introduction; everything else as talk from the sender.
func (a *Agent) Hear(ctx context.Context, msg transport.Inbound) {
	var message string
	switch msg.Kind {
	case wire.KindGreeting:
		message = core.FormatGreeting(msg.From.Name())
	default:
		message = core.FormatMessage(msg.From.Name(), msg.Instruction)
	}
	a.responder.Respond(ctx, a, msg.From, message, core.ParseTalkParams(msg.Extra))
}

// Optimize asks the agent's brain whether plans satisfy request.
func (a *Agent) Optimize(ctx context.Context, request string, plans ...core.Plan) (deliberation.Verdict, error) {
	if a.brain == nil {
		return deliberation.Verdict{}, ErrNoBrain
	}
	in := deliberation.OptimizeInput{Agent: a, Request: request, Plans: plans}
	return deliberation.Deliberate(ctx, deliberation.Optimizer{}, in, a.brain, a.deliberationOpts)
}

// Review asks the agent's brain whether the result of action was acceptable.
func (a *Agent) Review(ctx context.Context, plan core.Plan, action core.Action, result string) (deliberation.Verdict, error) {
	if a.brain == nil {
		return deliberation.Verdict{}, ErrNoBrain
	}
	in := deliberation.ReviewInput{Agent: a, Plan: plan, Action: action, Result: result}
	return deliberation.Deliberate(ctx, deliberation.Reviewer{}, in, a.brain, a.deliberationOpts)
}

func (a *Agent) deliberationOpts(o *deliberation.Options) { o.Logger = a.logger }

// Close stops the accept loop, waits for in-flight messages and releases
// the port. It must not be called from a Responder.
func (a *Agent) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		err = a.ear.Close()
		if a.serveErr != nil {
			if serr := <-a.serveErr; serr != nil && err == nil {
				err = serr
			}
		}
		a.logger.Info("agent stopped")
	})
	return err
}
