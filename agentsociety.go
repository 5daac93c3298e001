// Package agentsociety is the in-process façade over the agent, transport
// and deliberation packages. A Society spawns agents on a shared port range,
// wires friendships between them and tears them all down together.
//
// Typical use:
//  1. Create a Society via New (or FromConfig for a YAML roster)
//  2. Spawn agents and Introduce the ones that should talk
//  3. Let agents Talk, Invite helpers, and Optimize/Review through their brain
//  4. Close the society
package agentsociety

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/agentsociety/agent"
	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/util"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/tool"
)

// ErrDuplicateAgent is returned when a name is spawned twice.
var ErrDuplicateAgent = errors.New("agentsociety: agent already exists")

// Options configures a Society. Brain, Responder and Logger are applied to
// every spawned agent before its own options.
type Options struct {
	Network   config.Network
	Brain     brain.Brain
	Responder agent.Responder
	Logger    logging.Logger
}

// Society owns a set of agents.
type Society struct {
	opts   Options
	agents util.Registry[*agent.Agent]
	mu     sync.Mutex // serializes Spawn against Close
	closed bool
}

// New creates an empty Society. The network defaults to config.Default().
func New(optFns ...func(o *Options)) *Society {
	opts := Options{
		Network: config.Default().Network,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Society{opts: opts}
}

// FromConfig spawns every agent in cfg, registers their tools and then
// their friendships. On failure everything spawned so far is closed.
func FromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Society, error) {
	s := New(append([]func(o *Options){func(o *Options) { o.Network = cfg.Network }}, optFns...)...)

	for _, ac := range cfg.Agents {
		a, err := s.Spawn(ac.Name, ac.Instruction, func(o *agent.Options) { o.Terminal = ac.Terminal })
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		for _, tc := range ac.Tools {
			spec := tool.Spec{ToolName: tc.Name, ToolInstruction: tc.Instruction, Command: tc.Command}
			if err := spec.Validate(); err != nil {
				return nil, errors.Join(fmt.Errorf("agent %s: %w", ac.Name, err), s.Close())
			}
			a.AddTool(spec)
		}
	}
	for _, ac := range cfg.Agents {
		for _, friend := range ac.Friends {
			if err := s.Introduce(ac.Name, friend); err != nil {
				return nil, errors.Join(err, s.Close())
			}
		}
	}
	return s, nil
}

// Spawn creates and starts a new agent.
func (s *Society) Spawn(name, instruction string, optFns ...func(o *agent.Options)) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("agentsociety: closed")
	}
	if _, exists := s.agents.Get(name); exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, name)
	}

	fns := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Brain = s.opts.Brain
		o.Responder = s.opts.Responder
		o.Logger = s.opts.Logger
	}}, optFns...)

	a, err := agent.New(name, instruction, s.opts.Network, fns...)
	if err != nil {
		return nil, err
	}
	s.agents.Add(name, a)
	return a, nil
}

// Agent returns the named agent.
func (s *Society) Agent(name string) (*agent.Agent, bool) { return s.agents.Get(name) }

// Agents returns every agent in spawn order.
func (s *Society) Agents() []*agent.Agent { return s.agents.Values() }

// Introduce makes a and b mutual friends.
func (s *Society) Introduce(a, b string) error {
	x, ok := s.agents.Get(a)
	if !ok {
		return core.Errorf("society.introduce", core.ErrUnknownPeer, "%q", a)
	}
	y, ok := s.agents.Get(b)
	if !ok {
		return core.Errorf("society.introduce", core.ErrUnknownPeer, "%q", b)
	}
	x.Befriend(y)
	y.Befriend(x)
	return nil
}

// Invite spawns a helper for inviter. extra names the inviter's tools the
// helper receives (comma separated; names the inviter lacks are ignored).
// The two become friends and the helper greets its inviter.
func (s *Society) Invite(ctx context.Context, inviter, name, instruction, extra string) (*agent.Agent, error) {
	host, ok := s.agents.Get(inviter)
	if !ok {
		return nil, core.Errorf("society.invite", core.ErrUnknownPeer, "%q", inviter)
	}

	guest, err := s.Spawn(name, instruction)
	if err != nil {
		return nil, err
	}
	params := core.ParseInviteParams(extra, host.Tools().Has)
	for _, toolName := range params.Tools {
		if t, ok := host.Tools().Lookup(toolName); ok {
			guest.AddTool(t)
		}
	}
	if err := s.Introduce(inviter, name); err != nil {
		return nil, err
	}
	if err := guest.Greet(ctx, inviter); err != nil {
		return guest, err
	}
	return guest, nil
}

// Close stops every agent. The society cannot spawn afterwards.
func (s *Society) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, a := range s.agents.Values() {
		if err := a.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", a.Name(), err))
		}
	}
	return errors.Join(errs...)
}
