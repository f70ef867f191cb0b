// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedWaiter(t *testing.T) {
	w := NewFixedWaiter(250 * time.Millisecond)

	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, 250*time.Millisecond, w.Wait(attempt))
	}
}

func TestNewExpWaiterPanics(t *testing.T) {
	assert.Panics(t, func() { NewExpWaiter(0, time.Second, nil) })
	assert.Panics(t, func() { NewExpWaiter(time.Second, time.Millisecond, nil) })
	assert.Panics(t, func() { NewExpWaiter(time.Millisecond, time.Second, "seed") })
	assert.Panics(t, func() {
		var r *rand.Rand
		NewExpWaiter(time.Millisecond, time.Second, r)
	})
}

func TestNewExpWaiterNoJitter(t *testing.T) {
	base := 10 * time.Millisecond
	max := 80 * time.Millisecond
	w := NewExpWaiter(base, max, nil)

	// Without jitter the waiter returns the ceiling exactly.
	assert.Equal(t, 10*time.Millisecond, w.Wait(0))
	assert.Equal(t, 20*time.Millisecond, w.Wait(1))
	assert.Equal(t, 40*time.Millisecond, w.Wait(2))
	assert.Equal(t, 80*time.Millisecond, w.Wait(3))
	assert.Equal(t, 80*time.Millisecond, w.Wait(4), "capped at max")
	assert.Equal(t, 80*time.Millisecond, w.Wait(100), "overflow capped at max")
}

func TestNewExpWaiterJitterBounds(t *testing.T) {
	base := 10 * time.Millisecond
	max := 80 * time.Millisecond
	w := NewExpWaiter(base, max, int64(12345))

	for attempt := 0; attempt < 8; attempt++ {
		ceil := int64(base) << attempt
		if ceil > int64(max) {
			ceil = int64(max)
		}
		for i := 0; i < 50; i++ {
			d := w.Wait(attempt)
			require.GreaterOrEqual(t, int64(d), int64(0))
			require.Less(t, int64(d), ceil)
		}
	}
}

func TestWithWait(t *testing.T) {
	p := WithWait(NewPolicy(2, nil, nil), NewFixedWaiter(time.Second))

	assert.Equal(t, 2, p.NumberOfRetries())

	waiter, ok := p.(Waiter)
	require.True(t, ok)
	assert.Equal(t, time.Second, waiter.Wait(0))
}
