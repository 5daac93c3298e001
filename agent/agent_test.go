package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/core"
	tu "github.com/hupe1980/agentsociety/internal/testutil"
	"github.com/hupe1980/agentsociety/tool"
)

type heard struct {
	from    string
	message string
	params  core.TalkParams
}

func capture() (Responder, <-chan heard) {
	ch := make(chan heard, 8)
	return ResponderFunc(func(_ context.Context, _ *Agent, from core.Peer, message string, params core.TalkParams) {
		ch <- heard{from: from.Name(), message: message, params: params}
	}), ch
}

func network(t *testing.T, size int) config.Network {
	t.Helper()
	return config.Network{
		Host:        "127.0.0.1",
		PortStart:   tu.FreePortRange(t, size),
		PortRange:   size,
		DialTimeout: time.Second,
		ReadTimeout: 2 * time.Second,
	}
}

func newAgent(t *testing.T, name string, cfg config.Network, optFns ...func(o *Options)) *Agent {
	t.Helper()
	a, err := New(name, name+" instruction", cfg, optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func receive(t *testing.T, ch <-chan heard) heard {
	t.Helper()
	select {
	case h := <-ch:
		return h
	case <-time.After(3 * time.Second):
		t.Fatal("nothing heard")
		return heard{}
	}
}

func TestAgent_TalkBetweenFriends(t *testing.T) {
	cfg := network(t, 4)
	responder, inbox := capture()

	a := newAgent(t, "A", cfg)
	b := newAgent(t, "B", cfg, func(o *Options) { o.Responder = responder })
	a.Befriend(b)
	b.Befriend(a)

	assert.NotEqual(t, a.Port(), b.Port())

	require.NoError(t, a.Talk(context.Background(), "B", "Hello", "notes.md, plan.txt"))

	h := receive(t, inbox)
	assert.Equal(t, "A", h.from)
	assert.Equal(t, core.FormatMessage("A", "Hello"), h.message)
	assert.Equal(t, []string{"notes.md", "plan.txt"}, h.params.Attachments)
}

func TestAgent_Greet(t *testing.T) {
	cfg := network(t, 4)
	responder, inbox := capture()

	inviter := newAgent(t, "Alice", cfg, func(o *Options) { o.Responder = responder })
	invitee := newAgent(t, "Bob", cfg)
	inviter.Befriend(invitee)
	invitee.Befriend(inviter)

	require.NoError(t, invitee.Greet(context.Background(), "Alice"))

	h := receive(t, inbox)
	assert.Equal(t, "Bob", h.from)
	assert.Equal(t, core.FormatGreeting("Bob"), h.message)
	assert.Contains(t, h.message, "Hello, I am Bob.\nI was invited from you.")
	assert.Empty(t, h.params.Attachments)
}

func TestAgent_TalkToStranger(t *testing.T) {
	cfg := network(t, 2)
	a := newAgent(t, "A", cfg)

	err := a.Talk(context.Background(), "nobody", "hi", "")
	assert.ErrorIs(t, err, core.ErrUnknownPeer)
}

func TestAgent_IgnoresUnknownSenders(t *testing.T) {
	cfg := network(t, 4)
	responder, inbox := capture()

	a := newAgent(t, "A", cfg)
	b := newAgent(t, "B", cfg, func(o *Options) { o.Responder = responder })
	stranger := newAgent(t, "Mallory", cfg)
	a.Befriend(b)
	b.Befriend(a)
	stranger.Befriend(b)

	require.NoError(t, stranger.Talk(context.Background(), "B", "let me in", ""))
	require.NoError(t, a.Talk(context.Background(), "B", "hi", ""))

	h := receive(t, inbox)
	assert.Equal(t, "A", h.from)

	select {
	case extra := <-inbox:
		t.Fatalf("unexpected message from %s", extra.from)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAgent_TerminalWait(t *testing.T) {
	cfg := network(t, 4)

	david := newAgent(t, "David", cfg, func(o *Options) { o.Terminal = true })
	worker := newAgent(t, "Worker", cfg)
	worker.Befriend(david)
	assert.True(t, david.Terminal())

	done := make(chan error, 1)
	go func() { done <- david.Wait(context.Background()) }()

	require.NoError(t, worker.Talk(context.Background(), "David", "final answer", ""))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("terminal agent never saw the response")
	}
}

func TestAgent_Optimize(t *testing.T) {
	cfg := network(t, 2)

	var prompt string
	a := newAgent(t, "A", cfg, func(o *Options) {
		o.Brain = brain.Func(func(_ context.Context, p string) (string, error) {
			prompt = p
			return "[Accept] the search tool covers it", nil
		})
	})
	a.Befriend(tu.NewPeer("Bob", "writes code"))
	a.AddTool(tool.Spec{ToolName: "web_search", ToolInstruction: "searches"})

	v, err := a.Optimize(context.Background(), "find prior art", "Use web_search to look it up")
	require.NoError(t, err)
	assert.True(t, v.Accepted)
	assert.Equal(t, "the search tool covers it", v.Rationale)
	assert.Contains(t, prompt, "    Bob: writes code")
	assert.Contains(t, prompt, "    web_search: searches")
}

func TestAgent_Review(t *testing.T) {
	cfg := network(t, 2)
	a := newAgent(t, "A", cfg, func(o *Options) {
		o.Brain = brain.Static("The file is empty.\nRejected")
	})

	v, err := a.Review(context.Background(), "Use code_writer", core.Action{Kind: core.ActionUse, Name: "code_writer"}, "")
	require.NoError(t, err)
	assert.False(t, v.Accepted)
	assert.Equal(t, "The file is empty.", v.Rationale)
}

func TestAgent_NoBrain(t *testing.T) {
	cfg := network(t, 2)
	a := newAgent(t, "A", cfg)

	_, err := a.Optimize(context.Background(), "r")
	assert.ErrorIs(t, err, ErrNoBrain)
	_, err = a.Review(context.Background(), "p", core.Action{}, "")
	assert.ErrorIs(t, err, ErrNoBrain)
}

func TestNew_Validation(t *testing.T) {
	cfg := network(t, 1)

	_, err := New("", "x", cfg)
	assert.Error(t, err)

	_, err = New(strings.Repeat("n", 40), "x", cfg)
	assert.Error(t, err)
}

func TestAgent_CloseReleasesPort(t *testing.T) {
	cfg := network(t, 1)

	a, err := New("A", "", cfg)
	require.NoError(t, err)
	port := a.Port()
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	b, err := New("B", "", cfg)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, port, b.Port())
}
