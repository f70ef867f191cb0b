// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A Descriptor declaratively describes one HTTP-like call. Callers
// supply a Descriptor per call and never mutate it afterward; the
// builder translates it into a Wire request.
//
// Concrete descriptor types are caller-defined. Endpoint is the
// default implementation for endpoints that carry no payloads.
type Descriptor interface {
	// BaseURL returns the scheme and host portion of the target URL,
	// for example "https://api.example.com".
	BaseURL() string

	// Method returns the HTTP method. An empty method is an error:
	// the builder rejects descriptors that declare none.
	Method() string

	// Path returns the endpoint path, appended after the API version
	// prefix.
	Path() string

	// Header returns the header map to send. The engine consumes the
	// map as-is; it never builds headers itself. A nil map is valid.
	Header() map[string]string

	// Body returns the body payload, or nil when the call carries no
	// body. The payload is only encoded for body-bearing methods.
	Body() interface{}

	// Query returns the query payload, or nil when the call declares
	// no query string. Non-absent fields are encoded into the URL.
	Query() interface{}

	// APIVersion returns the version prefix inserted between the base
	// URL and the path, for example "/v2". May be empty.
	APIVersion() string
}

// An Endpoint is a plain value Descriptor. Its zero value describes
// nothing useful, but filling in Base, Verb and Route is enough for a
// payload-less call; the remaining fields default to absent.
type Endpoint struct {
	// Base is the scheme and host, e.g. "https://api.example.com".
	Base string
	// Verb is the HTTP method.
	Verb string
	// Route is the endpoint path.
	Route string
	// Headers is the header map to send. May be nil.
	Headers map[string]string
	// Payload is the body payload. Nil means no body.
	Payload interface{}
	// Params is the query payload. Nil means no query string.
	Params interface{}
	// Version is the API version prefix. May be empty.
	Version string
}

func (e Endpoint) BaseURL() string              { return e.Base }
func (e Endpoint) Method() string               { return e.Verb }
func (e Endpoint) Path() string                 { return e.Route }
func (e Endpoint) Header() map[string]string    { return e.Headers }
func (e Endpoint) Body() interface{}            { return e.Payload }
func (e Endpoint) Query() interface{}           { return e.Params }
func (e Endpoint) APIVersion() string           { return e.Version }
