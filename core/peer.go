package core

import (
	"github.com/google/uuid"
	"github.com/hupe1980/agentsociety/internal/util"
)

// Peer is the view an agent has of another agent it knows by name. The
// relation is non-owning: peers are neither created nor destroyed through a
// PeerTable.
type Peer interface {
	// Name is the agent identity, used as the wire sender field.
	Name() string
	// Instruction describes the peer's personality / responsibility.
	Instruction() string
	// Port is the peer's listening port.
	Port() int
}

// PeerTable is an insertion ordered name -> Peer mapping. Lookups are safe
// while connection handlers run concurrently with Add.
type PeerTable struct {
	reg util.Registry[Peer]
}

// NewPeerTable creates a table holding the given peers in order.
func NewPeerTable(peers ...Peer) *PeerTable {
	t := &PeerTable{}
	for _, p := range peers {
		t.Add(p)
	}
	return t
}

// Add inserts or replaces a peer.
func (t *PeerTable) Add(p Peer) { t.reg.Put(p.Name(), p) }

// Lookup returns the peer registered under name.
func (t *PeerTable) Lookup(name string) (Peer, bool) { return t.reg.Get(name) }

// Names returns peer names in insertion order.
func (t *PeerTable) Names() []string { return t.reg.Names() }

// All returns peers in insertion order.
func (t *PeerTable) All() []Peer { return t.reg.Values() }

// Len returns the number of peers.
func (t *PeerTable) Len() int { return t.reg.Len() }

// NewID returns a random identifier used to correlate log lines.
func NewID() string { return uuid.NewString() }
