// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"net/http"
	urlpkg "net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWire(t *testing.T) *Wire {
	t.Helper()
	u, err := urlpkg.Parse("https://api.example.com/v1/things")
	require.NoError(t, err)
	return &Wire{
		Method: "POST",
		URL:    u,
		Header: http.Header{"X-Tenant": []string{"acme"}},
		Body:   []byte(`{"name":"widget"}`),
	}
}

func TestWireClone(t *testing.T) {
	w := mustWire(t)

	w2 := w.Clone()
	w2.Header.Set("X-Tenant", "other")
	w2.URL.Path = "/v1/elsewhere"

	assert.Equal(t, "acme", w.Header.Get("X-Tenant"))
	assert.Equal(t, "/v1/things", w.URL.Path)
	assert.Equal(t, "other", w2.Header.Get("X-Tenant"))
	assert.Equal(t, w.Body, w2.Body)
}

func TestWireToRequest(t *testing.T) {
	w := mustWire(t)

	r := w.ToRequest(context.Background())

	assert.Equal(t, "POST", r.Method)
	assert.Same(t, w.URL, r.URL)
	assert.Equal(t, int64(len(w.Body)), r.ContentLength)

	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, w.Body, body)

	// The body must be replayable for redirect handling.
	require.NotNil(t, r.GetBody)
	rc, err := r.GetBody()
	require.NoError(t, err)
	again, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, w.Body, again)
}

func TestWireToRequestNoBody(t *testing.T) {
	w := mustWire(t)
	w.Body = nil

	r := w.ToRequest(context.Background())

	assert.Nil(t, r.Body)
	assert.Zero(t, r.ContentLength)
}

func TestWireProgress(t *testing.T) {
	w := mustWire(t)
	var sent, total int64
	var fraction float64
	calls := 0
	w.Progress = func(s, tot int64, f float64) {
		sent, total, fraction = s, tot, f
		calls++
	}

	r := w.ToRequest(context.Background())
	_, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	assert.Greater(t, calls, 0)
	assert.Equal(t, int64(len(w.Body)), sent, "final notification reports the full body sent")
	assert.Equal(t, int64(len(w.Body)), total)
	assert.Equal(t, 1.0, fraction)
}
