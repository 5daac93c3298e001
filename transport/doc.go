// Package transport moves wire frames between agent processes.
//
// Every agent owns exactly one Ear and one Mouth:
//
//   - The Ear binds the first free port of a configured range, runs an
//     accept loop and handles each connection on its own goroutine. A
//     connection is dropped (logged, counted, never propagated) when it does
//     not originate from loopback, when its frame is malformed, when the
//     sender is not a known peer or when the message kind is unknown.
//     Surviving messages are dispatched synchronously to a Handler.
//   - The Mouth encodes one frame per call, dials the peer's port, writes
//     the frame and closes the connection. Delivery is at most once; no
//     acknowledgement is read and nothing is retried.
//
// Rejected messages are silent from the sender's point of view.
package transport
