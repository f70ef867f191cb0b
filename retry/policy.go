// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"github.com/reqwire/reqwire/fault"
	"github.com/reqwire/reqwire/request"
)

// A Policy controls if and how failed request attempts are retried.
//
// After a failed attempt with retry budget remaining, the engine asks
// ShouldRetry whether the classified error is worth another attempt.
// If so, ModifyForRetry produces the next wire request; it is the hook
// for per-retry request mutation such as token refresh. The budget is
// fixed per call by NumberOfRetries and is independent across
// concurrent calls.
//
// Implementations of Policy must be safe for concurrent use by
// multiple goroutines.
type Policy interface {
	// NumberOfRetries returns the per-call retry budget. A budget of
	// n allows at most n+1 total attempts.
	NumberOfRetries() int

	// ShouldRetry reports whether the attempt that produced err is
	// worth retrying. It is only consulted while budget remains.
	ShouldRetry(w *request.Wire, err error) bool

	// ModifyForRetry returns the wire request for the next attempt,
	// possibly altered. Returning nil means "retry unchanged"; the
	// engine substitutes a clone of the failed request.
	ModifyForRetry(w *request.Wire, err error) *request.Wire
}

// DefaultRetries is the retry budget carried by the ready-made
// Transient policy.
const DefaultRetries = 3

// None is the default policy: it retries nothing.
var None Policy = NewPolicy(0, nil, nil)

// Transient is a ready-made policy suitable for common use cases. It
// allows up to DefaultRetries retries of transient transport failures
// and of the classic retryable status codes 429 (Too Many Requests),
// 502 (Bad Gateway), 503 (Service Unavailable) and 504 (Gateway
// Timeout), waiting between attempts per DefaultWaiter.
var Transient Policy = WithWait(
	NewPolicy(DefaultRetries, OnTransient.Or(OnStatus(429, 502, 503, 504)), nil),
	DefaultWaiter,
)

// A ShouldFunc adapts an ordinary function into the ShouldRetry half
// of a policy, and provides the logical composition methods And and
// Or. Every ShouldFunc must be safe for concurrent use by multiple
// goroutines.
type ShouldFunc func(w *request.Wire, err error) bool

// And composes two retry conditions into one which reports true only
// if both do. Short-circuit logic is used, so g is not evaluated when
// f reports false.
func (f ShouldFunc) And(g ShouldFunc) ShouldFunc {
	return func(w *request.Wire, err error) bool {
		return f(w, err) && g(w, err)
	}
}

// Or composes two retry conditions into one which reports true if
// either does. Short-circuit logic is used, so g is not evaluated when
// f reports true.
func (f ShouldFunc) Or(g ShouldFunc) ShouldFunc {
	return func(w *request.Wire, err error) bool {
		return f(w, err) || g(w, err)
	}
}

// OnTransient is a retry condition that reports true when the error is
// a transport failure categorized as transient (timeout, connection
// refused, connection reset).
var OnTransient ShouldFunc = func(_ *request.Wire, err error) bool {
	e := fault.Classify(err)
	return e.Kind == fault.Transport && e.Transience != fault.Not
}

// OnTransport is a retry condition that reports true for every
// transport-kind failure, transient or not.
var OnTransport ShouldFunc = func(_ *request.Wire, err error) bool {
	return fault.KindOf(err) == fault.Transport
}

// OnStatus constructs a retry condition that reports true when the
// error is an HTTP-kind failure whose status code is one of ss.
func OnStatus(ss ...int) ShouldFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(_ *request.Wire, err error) bool {
		e := fault.Classify(err)
		if e.Kind != fault.HTTP {
			return false
		}
		for _, s := range ss2 {
			if e.StatusCode == s {
				return true
			}
		}
		return false
	}
}

// A ModifyFunc adapts an ordinary function into the ModifyForRetry
// half of a policy.
type ModifyFunc func(w *request.Wire, err error) *request.Wire

// NewPolicy constructs a policy from a retry budget, a retry condition
// and a request modifier. A nil should retries every eligible failure;
// a nil modify retries with an unmodified clone of the failed request.
func NewPolicy(retries int, should ShouldFunc, modify ModifyFunc) Policy {
	return &policy{retries: retries, should: should, modify: modify}
}

type policy struct {
	retries int
	should  ShouldFunc
	modify  ModifyFunc
}

func (p *policy) NumberOfRetries() int {
	return p.retries
}

func (p *policy) ShouldRetry(w *request.Wire, err error) bool {
	if p.should == nil {
		return true
	}
	return p.should(w, err)
}

func (p *policy) ModifyForRetry(w *request.Wire, err error) *request.Wire {
	if p.modify == nil {
		return w.Clone()
	}
	return p.modify(w, err)
}
