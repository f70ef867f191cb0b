// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

// An Event identifies the plug-in point when installing or running a
// Handler. Install event handlers in an Engine to extend it with
// custom functionality.
type Event int

const (
	// BeforeAttempt fires before each request attempt is dispatched.
	// The attempt's Wire field holds the request that will be sent;
	// Response and Err are nil.
	BeforeAttempt Event = iota
	// AfterAttempt fires after each request attempt concludes,
	// successfully or not, and before the retry policy is consulted.
	AfterAttempt
	// AfterRetry fires once the engine has committed to another
	// attempt: the attempt's Wire field holds the next request (as
	// produced by the retry policy) and its Number has been advanced.
	AfterRetry
	// AfterEnd fires once per call, after the terminal outcome is
	// determined.
	AfterEnd

	eventSentinel

	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeAttempt",
	"AfterAttempt",
	"AfterRetry",
	"AfterEnd",
}

// Events returns all events which can occur during a call, in the
// order in which they would occur.
func Events() []Event {
	return []Event{BeforeAttempt, AfterAttempt, AfterRetry, AfterEnd}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
