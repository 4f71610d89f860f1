// Package ws adapts the callback-driven websocket transport into a blocking
// one-frame-at-a-time connection used by the streaming session.
package ws

import "sync/atomic"

// ConnState is the connection lifecycle state. Transitions only move forward:
// Connecting to Open, Open to Closing, Closing to Closed. A dead connection is
// never reused.
type ConnState int32

const (
	// StateConnecting means the handshake is in flight.
	StateConnecting ConnState = iota
	// StateOpen means frames are being exchanged.
	StateOpen
	// StateClosing means a close has been initiated but the read loop has not
	// drained yet.
	StateClosing
	// StateClosed is terminal.
	StateClosed
)

// String returns the state name.
func (s ConnState) String() string {
	return [...]string{
		"connecting",
		"open",
		"closing",
		"closed",
	}[s]
}

// State provides atomic access to a ConnState value.
type State struct {
	state atomic.Int32
}

// Load returns the current state.
func (s *State) Load() ConnState {
	return ConnState(s.state.Load())
}

// Store sets the state.
func (s *State) Store(state ConnState) {
	s.state.Store(int32(state))
}

// CompareAndSwap swaps old for new atomically and reports whether it did.
func (s *State) CompareAndSwap(old, new ConnState) bool {
	return s.state.CompareAndSwap(int32(old), int32(new))
}
