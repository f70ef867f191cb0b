// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter specifies how long to wait before the next attempt. The
// engine honors it between attempts when the active policy implements
// it; attach one to any policy with WithWait.
//
// Implementations of Waiter must be safe for concurrent use by
// multiple goroutines.
type Waiter interface {
	// Wait returns the wait duration after the attempt with the given
	// zero-based number failed.
	Wait(attempt int) time.Duration
}

// DefaultWaiter is the wait strategy of the ready-made Transient
// policy: jittered exponential backoff with a base wait of 50
// milliseconds and a maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, time.Second, time.Now())

// WithWait attaches a wait strategy to a policy. The returned policy
// delegates every Policy method to p and implements Waiter via w.
func WithWait(p Policy, w Waiter) Policy {
	return &waitingPolicy{Policy: p, waiter: w}
}

type waitingPolicy struct {
	Policy
	waiter Waiter
}

func (p *waitingPolicy) Wait(attempt int) time.Duration {
	return p.waiter.Wait(attempt)
}

// NewFixedWaiter constructs a Waiter that always returns the given
// duration, giving constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ int) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// The formula implemented is the "Full Jitter" approach described in:
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// Parameters base and max control the exponential calculation of the
// ceiling:
//
//	ceil := min(base * 2**attempt, max)
//
// Base and max must be positive, and max must be at least base.
//
// Parameter jitter selects the random number generated between 0 and
// ceil. Pass nil for no jitter (the waiter returns ceil each time);
// otherwise pass a seed value (time.Time, int, or int64) or a
// rand.Source to drive the jitter calculation.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("reqwire/retry: base must be positive")
	}
	if max < base {
		panic("reqwire/retry: max must be at least base")
	}
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(attempt int) time.Duration {
	exp := int64(1) << attempt
	if exp < 1 {
		exp = 1<<63 - 1
	}

	ceil := int64(w.base) * exp
	if ceil < int64(w.base) || int64(w.max) < ceil {
		ceil = int64(w.max)
	}

	duration := ceil
	if ceil > 0 && w.rand != nil {
		w.lock.Lock()
		defer w.lock.Unlock()
		duration = w.rand.Int63n(ceil)
	}

	return time.Duration(duration)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("reqwire/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("reqwire/retry: invalid jitter type")
	}
	return rand.New(s)
}
