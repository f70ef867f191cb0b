// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"net/http"
	urlpkg "net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqwire/reqwire/fault"
	"github.com/reqwire/reqwire/request"
)

func testWire(t *testing.T) *request.Wire {
	t.Helper()
	u, err := urlpkg.Parse("https://api.example.com/v1/things")
	require.NoError(t, err)
	return &request.Wire{Method: "GET", URL: u, Header: make(http.Header)}
}

func TestNone(t *testing.T) {
	assert.Equal(t, 0, None.NumberOfRetries())
}

func TestNewPolicy(t *testing.T) {
	w := testWire(t)
	err := fault.NewHTTP(500, nil)

	t.Run("nil should retries everything", func(t *testing.T) {
		p := NewPolicy(2, nil, nil)

		assert.Equal(t, 2, p.NumberOfRetries())
		assert.True(t, p.ShouldRetry(w, err))
	})
	t.Run("nil modify clones", func(t *testing.T) {
		p := NewPolicy(1, nil, nil)

		next := p.ModifyForRetry(w, err)

		require.NotNil(t, next)
		assert.NotSame(t, w, next)
		assert.Equal(t, w.Method, next.Method)
		assert.Equal(t, w.URL.String(), next.URL.String())
	})
	t.Run("custom modify", func(t *testing.T) {
		p := NewPolicy(1, nil, func(w *request.Wire, _ error) *request.Wire {
			next := w.Clone()
			next.Header.Set("Authorization", "Bearer fresh")
			return next
		})

		next := p.ModifyForRetry(w, err)

		assert.Equal(t, "Bearer fresh", next.Header.Get("Authorization"))
		assert.Empty(t, w.Header.Get("Authorization"))
	})
}

func TestShouldFuncComposition(t *testing.T) {
	w := testWire(t)
	yes := ShouldFunc(func(*request.Wire, error) bool { return true })
	no := ShouldFunc(func(*request.Wire, error) bool { return false })

	assert.True(t, yes.And(yes)(w, nil))
	assert.False(t, yes.And(no)(w, nil))
	assert.True(t, yes.Or(no)(w, nil))
	assert.True(t, no.Or(yes)(w, nil))
	assert.False(t, no.Or(no)(w, nil))

	t.Run("short circuit", func(t *testing.T) {
		called := false
		probe := ShouldFunc(func(*request.Wire, error) bool { called = true; return true })

		no.And(probe)(w, nil)
		assert.False(t, called)

		yes.Or(probe)(w, nil)
		assert.False(t, called)
	})
}

func TestOnTransient(t *testing.T) {
	w := testWire(t)

	assert.True(t, OnTransient(w, fault.Wrap(fault.Transport, syscall.ECONNRESET)))
	assert.True(t, OnTransient(w, fault.Wrap(fault.Transport, syscall.ECONNREFUSED)))
	assert.False(t, OnTransient(w, fault.Wrap(fault.Transport, errors.New("dns"))))
	assert.False(t, OnTransient(w, fault.NewHTTP(503, nil)))
	assert.False(t, OnTransient(w, fault.New(fault.Decoding, "bad")))
}

func TestOnTransport(t *testing.T) {
	w := testWire(t)

	assert.True(t, OnTransport(w, fault.Wrap(fault.Transport, errors.New("dns"))))
	assert.False(t, OnTransport(w, fault.NewHTTP(500, nil)))
}

func TestOnStatus(t *testing.T) {
	w := testWire(t)
	cond := OnStatus(429, 503)

	assert.True(t, cond(w, fault.NewHTTP(429, nil)))
	assert.True(t, cond(w, fault.NewHTTP(503, nil)))
	assert.False(t, cond(w, fault.NewHTTP(500, nil)))
	assert.False(t, cond(w, fault.Wrap(fault.Transport, errors.New("reset"))))
}

func TestTransient(t *testing.T) {
	w := testWire(t)

	assert.Equal(t, DefaultRetries, Transient.NumberOfRetries())
	assert.True(t, Transient.ShouldRetry(w, fault.NewHTTP(502, nil)))
	assert.True(t, Transient.ShouldRetry(w, fault.Wrap(fault.Transport, syscall.ECONNRESET)))
	assert.False(t, Transient.ShouldRetry(w, fault.NewHTTP(404, nil)))

	waiter, ok := Transient.(Waiter)
	require.True(t, ok)
	d := waiter.Wait(0)
	assert.GreaterOrEqual(t, int64(d), int64(0))
}
