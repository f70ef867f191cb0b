// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"context"
	"net/http"
	"net/url"

	"github.com/reqwire/reqwire/request"
)

// Get executes a GET against base+path and decodes the response as T,
// using the same policies as Execute.
//
// To declare headers, payloads or an API version prefix, build a
// request.Endpoint (or any other Descriptor) and use Execute.
func Get[T any](ctx context.Context, e *Engine, base, path string) (T, error) {
	return Execute[T](ctx, e, request.Endpoint{
		Base:  base,
		Verb:  http.MethodGet,
		Route: path,
	})
}

// Post executes a POST of body (JSON-encoded) against base+path and
// decodes the response as T, using the same policies as Execute.
func Post[T any](ctx context.Context, e *Engine, base, path string, body interface{}) (T, error) {
	return Execute[T](ctx, e, request.Endpoint{
		Base:    base,
		Verb:    http.MethodPost,
		Route:   path,
		Payload: body,
	})
}

// PostForm executes a POST of data's keys and values, URL-encoded as
// the request body, against base+path and decodes the response as T.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm[T any](ctx context.Context, e *Engine, base, path string, data url.Values) (T, error) {
	return Execute[T](ctx, e, request.Endpoint{
		Base:    base,
		Verb:    http.MethodPost,
		Route:   path,
		Headers: map[string]string{"Content-Type": request.FormMarker},
		Payload: data,
	})
}
