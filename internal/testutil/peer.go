package testutil

import "github.com/hupe1980/agentsociety/core"

var _ core.Peer = StaticPeer{}

// StaticPeer is a fixed core.Peer.
type StaticPeer struct {
	PeerName        string
	PeerInstruction string
	PeerPort        int
}

// Name implements core.Peer.
func (p StaticPeer) Name() string { return p.PeerName }

// Instruction implements core.Peer.
func (p StaticPeer) Instruction() string { return p.PeerInstruction }

// Port implements core.Peer.
func (p StaticPeer) Port() int { return p.PeerPort }

// NewPeer builds a StaticPeer without a port.
func NewPeer(name, instruction string) StaticPeer {
	return StaticPeer{PeerName: name, PeerInstruction: instruction}
}
