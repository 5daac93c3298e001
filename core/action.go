package core

import (
	"fmt"
	"strings"
)

// ActionKind enumerates what an agent can do in one step of a plan.
type ActionKind int

const (
	// ActionInvite brings in a new helper agent.
	ActionInvite ActionKind = iota
	// ActionTalk sends a message to a peer.
	ActionTalk
	// ActionBuild creates or rebuilds a reusable tool.
	ActionBuild
	// ActionUse runs one of the agent's tools.
	ActionUse
	// ActionFinish ends the plan. It carries no description and is never
	// offered to a reasoning capability.
	ActionFinish
)

type actionInfo struct {
	name        string
	description string
}

var actionCatalog = map[ActionKind]actionInfo{
	ActionInvite: {"Invite", "Invite person who can do your work for you and are not your friends."},
	ActionTalk:   {"Talk", "Talk to your friends."},
	ActionBuild:  {"Build", "Build or rebuild a reusable tool when you can't do it yourself."},
	ActionUse:    {"Use", "Use one of your tools."},
	ActionFinish: {"Finish", ""},
}

// ActionKinds returns every known kind in catalog order.
func ActionKinds() []ActionKind {
	return []ActionKind{ActionInvite, ActionTalk, ActionBuild, ActionUse, ActionFinish}
}

// String returns the display name of the kind.
func (k ActionKind) String() string {
	if info, ok := actionCatalog[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Description returns the human readable description, or "" for kinds that
// are not offered to a reasoning capability.
func (k ActionKind) Description() string { return actionCatalog[k].description }

// HasDescription reports whether the kind is rendered into prompts.
func (k ActionKind) HasDescription() bool { return k.Description() != "" }

// ParseActionKind resolves a display name (case insensitive).
func ParseActionKind(s string) (ActionKind, error) {
	for _, k := range ActionKinds() {
		if strings.EqualFold(k.String(), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// Action is one already-executed (or about to be executed) step.
type Action struct {
	Kind        ActionKind
	Name        string // peer, tool or invitee name depending on Kind
	Instruction string
	Extra       string
}

// String renders the action the way it is restated to a reviewer.
func (a Action) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Type]: %s\n", a.Kind)
	fmt.Fprintf(&b, "[Name]: %s\n", a.Name)
	fmt.Fprintf(&b, "[Instruction]: %s\n", a.Instruction)
	fmt.Fprintf(&b, "[Extra]: %s", a.Extra)
	return b.String()
}

// Plan is an opaque one-line description of a proposed step.
type Plan string

// String returns the plan on a single line. Embedded line breaks are
// flattened to spaces.
func (p Plan) String() string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(string(p))
}
