// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"context"
	"sync"

	"github.com/reqwire/reqwire/request"
	"github.com/reqwire/reqwire/retry"
)

// State is the engine's serialized mutable-state store, shared by all
// concurrent calls on one Engine. It holds the response codec, the
// active retry policy, the queue of requests pending retry, and the
// set of in-flight transport sessions.
//
// All mutation funnels through one mutex, so composite operations
// (AppendPendingRetry, ClearPendingRetries, CancelAll) are atomic with
// respect to each other and to reads: no caller ever observes a
// partially applied composite mutation. Plain reads observe the latest
// committed write.
type State struct {
	mu       sync.Mutex
	codec    Codec
	policy   retry.Policy
	pending  []*request.Wire
	sessions map[uint64]context.CancelFunc
	nextID   uint64
}

func newState() *State {
	return &State{
		codec:    JSON,
		policy:   retry.None,
		sessions: make(map[uint64]context.CancelFunc),
	}
}

// Codec returns the response decoder configuration.
func (s *State) Codec() Codec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codec
}

// SetCodec replaces the response decoder configuration. Calls started
// after the write observe the new codec.
func (s *State) SetCodec(c Codec) {
	if c == nil {
		c = JSON
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codec = c
}

// RetryPolicy returns the active retry policy.
func (s *State) RetryPolicy() retry.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetRetryPolicy replaces the active retry policy. Calls started after
// the write observe the new policy; in-flight calls keep the policy
// they started with.
func (s *State) SetRetryPolicy(p retry.Policy) {
	if p == nil {
		p = retry.None
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}

// AppendPendingRetry records a request awaiting retry, making the most
// recent request pending retry observable mid-flight.
func (s *State) AppendPendingRetry(w *request.Wire) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, w)
}

// LastPendingRetry returns the most recently appended request awaiting
// retry, or nil when the queue is empty.
func (s *State) LastPendingRetry() *request.Wire {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	return s.pending[len(s.pending)-1]
}

// PendingRetries returns the number of requests awaiting retry.
func (s *State) PendingRetries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ClearPendingRetries empties the pending-retry queue. The engine
// clears the queue at the start of each retry attempt.
func (s *State) ClearPendingRetries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// AddSession tracks an in-flight transport session for bulk
// cancellation and returns its handle.
func (s *State) AddSession(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.sessions[id] = cancel
	return id
}

// RemoveSession stops tracking a session. Removing a handle that is no
// longer tracked is a no-op.
func (s *State) RemoveSession(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ActiveSessions returns the number of in-flight sessions currently
// tracked.
func (s *State) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CancelAll invalidates every tracked session and clears both the
// session set and the pending-retry queue in one atomic step. It does
// not wait for in-flight operations to finish: cancellation is
// signalled and each operation observes its own failure. Calls started
// after CancelAll returns are unaffected.
func (s *State) CancelAll() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.sessions))
	for _, cancel := range s.sessions {
		cancels = append(cancels, cancel)
	}
	s.sessions = make(map[uint64]context.CancelFunc)
	s.pending = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
