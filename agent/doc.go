// Package agent implements a networked agent: a named actor with a peer
// table, a tool table, a reasoning capability and one owned pair of
// transport endpoints.
//
// Construction binds the agent's Ear. Unless the agent is terminal, its
// accept loop starts immediately on a goroutine of its own; a terminal
// agent never serves inbound traffic and only uses Wait as a rendezvous.
//
// Inbound talk is formatted the way it is presented to the agent (a header
// naming the sender, then the body) and handed to a Responder, which is
// where an orchestration loop plugs in.
package agent
