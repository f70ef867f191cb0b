// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqwire/reqwire/fault"
)

func streamServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func collect[T any](t *testing.T, s *Stream[T]) []T {
	t.Helper()
	var out []T
	for s.Next() {
		out = append(out, s.Value())
	}
	return out
}

func TestStreamDecodesInOrder(t *testing.T) {
	server := streamServer(t, `{"name":"a","count":1}`+"\n"+`{"name":"b","count":2}`+"\n")
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)
	defer s.Close()

	got := collect(t, s)

	require.NoError(t, s.Err())
	assert.Equal(t, []widget{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, got)
	assert.Zero(t, eng.State().ActiveSessions(), "exhaustion releases the session")
}

func TestStreamPartialTail(t *testing.T) {
	server := streamServer(t, `{"name":"a","count":1}`+"\n"+`{"name":"tail","count":9}`)
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)
	defer s.Close()

	got := collect(t, s)

	require.NoError(t, s.Err())
	assert.Equal(t, []widget{{Name: "a", Count: 1}, {Name: "tail", Count: 9}}, got,
		"a non-empty partial tail is decoded before termination")
}

func TestStreamSkipsBlankSegments(t *testing.T) {
	server := streamServer(t, "\n"+`{"name":"a","count":1}`+"\r\n\n\n"+`{"name":"b","count":2}`+"\n\n")
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)
	defer s.Close()

	got := collect(t, s)

	require.NoError(t, s.Err())
	assert.Equal(t, []widget{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, got)
}

func TestStreamDecodeFailure(t *testing.T) {
	server := streamServer(t, `{"name":"a","count":1}`+"\nnot json\n"+`{"name":"c","count":3}`+"\n")
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Next())
	assert.Equal(t, widget{Name: "a", Count: 1}, s.Value())
	assert.False(t, s.Next(), "a malformed segment terminates the stream")
	assert.False(t, s.Next(), "termination is sticky")
	assert.Equal(t, fault.Decoding, fault.KindOf(s.Err()))
}

func TestStreamHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance window")
	}))
	defer server.Close()
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))

	require.Error(t, err)
	assert.Nil(t, s)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fault.HTTP, fe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "maintenance window", string(fe.Body))
	assert.Zero(t, eng.State().ActiveSessions())
}

func TestStreamCloseStopsSource(t *testing.T) {
	disconnected := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		_, _ = io.WriteString(w, `{"name":"a","count":1}`+"\n")
		flusher.Flush()
		<-r.Context().Done()
		close(disconnected)
	}))
	defer server.Close()
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)

	require.True(t, s.Next())
	assert.Equal(t, widget{Name: "a", Count: 1}, s.Value())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	select {
	case <-disconnected:
	case <-time.After(5 * time.Second):
		t.Fatal("source read did not stop after Close")
	}
	assert.False(t, s.Next())
	assert.NoError(t, s.Err(), "consumer abandonment is not an error")
	assert.Zero(t, eng.State().ActiveSessions())
}

func TestStreamCancelAllTearsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, `{"name":"a","count":1}`+"\n")
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()
	eng := &Engine{Transport: NewHTTPTransport(server.Client())}

	s, err := ExecuteStream[widget](context.Background(), eng, endpoint(server, "/feed"))
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Next())
	require.Equal(t, 1, eng.State().ActiveSessions())

	eng.CancelAll()

	for s.Next() {
	}
	require.Error(t, s.Err(), "cancellation mid-consumption surfaces a fault")
	assert.Equal(t, fault.Transport, fault.KindOf(s.Err()))
}
