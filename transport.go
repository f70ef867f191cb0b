// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"context"
	"io"
	"net/http"

	"github.com/reqwire/reqwire/request"
)

// A Response is the buffered result of one transport round trip.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int
	// Header contains the response headers.
	Header http.Header
	// Body is the fully buffered response body. It is nil on the
	// streaming path, where the body arrives incrementally.
	Body []byte
}

// A Transport dispatches wire requests. The engine delegates all
// network mechanics to it and layers request shaping, retries and
// stream decoding on top. Each call runs on its own transport session;
// cancellation propagates through the context.
//
// Implementations of Transport must be safe for concurrent use by
// multiple goroutines.
type Transport interface {
	// Send performs one round trip and buffers the whole response
	// body. A returned error means the round trip itself failed
	// (connectivity, timeout); a non-2xx status is not an error at
	// this level.
	Send(ctx context.Context, w *request.Wire) (*Response, error)

	// Stream performs one round trip and hands back the raw response
	// body for incremental reading. The caller owns the body and must
	// close it. The returned Response carries status and headers only.
	Stream(ctx context.Context, w *request.Wire) (*Response, io.ReadCloser, error)
}

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response, following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer. It must follow the contract documented on the standard
	// library http.Client.
	Do(r *http.Request) (*http.Response, error)
}

// NewHTTPTransport wraps an HTTPDoer into a Transport. A nil doer
// selects http.DefaultClient.
//
// The doer typically holds internal state (cached TCP connections), so
// transports should be reused rather than created per call.
func NewHTTPTransport(d HTTPDoer) Transport {
	if d == nil {
		d = http.DefaultClient
	}
	return httpTransport{doer: d}
}

type httpTransport struct {
	doer HTTPDoer
}

func (t httpTransport) Send(ctx context.Context, w *request.Wire) (*Response, error) {
	resp, err := t.doer.Do(w.ToRequest(ctx))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (t httpTransport) Stream(ctx context.Context, w *request.Wire) (*Response, io.ReadCloser, error) {
	resp, err := t.doer.Do(w.ToRequest(ctx))
	if err != nil {
		return nil, nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header}, resp.Body, nil
}
