// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
	"syscall"
)

// A Kind classifies an error surfaced by the request execution engine.
//
// Every error returned through the engine's public call path is an
// *Error carrying exactly one Kind. The zero Kind is Unknown, the
// catch-all for failures that could not be classified, including
// builder failures reached through the public call path.
type Kind int

const (
	// Unknown is the catch-all kind for unclassified failures.
	Unknown Kind = iota
	// InvalidURL indicates the descriptor's base URL, API version and
	// path did not combine into a valid absolute URL. Never retried.
	InvalidURL
	// MissingMethod indicates the descriptor declared no HTTP method,
	// or declared one that is not a valid token. Never retried.
	MissingMethod
	// EncodingFailed indicates a body or query payload could not be
	// serialized. Never retried.
	EncodingFailed
	// Transport indicates a connectivity or timeout failure reported
	// by the transport collaborator. Retry-eligible.
	Transport
	// Decoding indicates the response bytes did not decode into the
	// expected type. Offered to the retry policy, though a retry with
	// an unmodified request will usually fail identically.
	Decoding
	// HTTP indicates the transport round-trip succeeded but the status
	// code fell outside [200,300). Retry eligibility is governed
	// entirely by the retry policy, never by status class alone.
	HTTP
)

var kindNames = []string{
	"unknown",
	"invalid URL",
	"missing method",
	"encoding failed",
	"transport",
	"decoding",
	"HTTP",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < Unknown || int(k) >= len(kindNames) {
		return fmt.Sprintf("fault.Kind(%d)", int(k))
	}
	return kindNames[k]
}

// A Transience categorizes how likely a transport failure is to clear
// up on retry, as reported by Categorize.
//
// The category Not means the error is not transient from the
// perspective of completing a request attempt successfully: a retry
// after encountering it is very unlikely to succeed. All other
// categories indicate some prospect of success on retry.
type Transience int

const (
	// Not indicates any non-transient error.
	Not Transience = iota
	// Timeout indicates a client-side timeout. The server may be going
	// through a temporary period of slowness, or the client may
	// succeed on a future attempt by waiting longer.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection.
	//
	// Although refusal may be a permanent condition, it is classified
	// as transient because it happens while a service on the remote
	// host is starting or restarting and not yet listening.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection. Resets are common when a remote service is bounced
	// mid-response or a load balancer drains a backend, so they tend
	// to indicate a high probability of success on retry.
	ConnReset
)

// Categorize returns the transience category of the given error. A nil
// error, and an error that is not transient from the perspective of
// completing a request attempt, both produce Not.
//
// Categorize inspects wrapped cause errors contained within err, not
// just err itself. It never consults a Temporary() method, as the
// semantics of Temporary() aren't entirely clear.
func Categorize(err error) Transience {
	if err == nil {
		return Not
	}

	var ht hasTimeout
	if errors.As(err, &ht) && ht.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}

// An Error is a classified engine failure. It is the concrete type of
// every error the engine surfaces to callers.
type Error struct {
	// Kind is the taxonomy classification of the failure.
	Kind Kind
	// StatusCode is the HTTP response status code. It is only set when
	// Kind is HTTP.
	StatusCode int
	// Body is the raw response body received alongside a non-2xx
	// status. It is only set when Kind is HTTP.
	Body []byte
	// Transience categorizes a Transport failure's prospects on retry.
	// It is Not for every other kind.
	Transience Transience

	msg   string
	cause error
}

// New returns an error of the given kind carrying a literal message
// and no cause.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, msg: msg}
}

// Wrap returns an error of the given kind wrapping cause. Transport
// kinds have their transience categorized from the cause.
func Wrap(k Kind, cause error) *Error {
	e := &Error{Kind: k, cause: cause}
	if k == Transport {
		e.Transience = Categorize(cause)
	}
	return e
}

// NewHTTP returns an HTTP-kind error for a response with a status code
// outside [200,300). The raw response body travels with the error.
func NewHTTP(statusCode int, body []byte) *Error {
	return &Error{Kind: HTTP, StatusCode: statusCode, Body: body}
}

// Classify converts an arbitrary execution-stage error into a
// classified *Error. An error that is already classified is returned
// unchanged; anything else is treated as a transport failure and has
// its transience categorized.
func Classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(Transport, err)
}

// KindOf reports the kind of err. It returns Unknown for a nil error
// and for errors that do not carry a classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == HTTP:
		return fmt.Sprintf("reqwire: HTTP %d (%d body bytes)", e.StatusCode, len(e.Body))
	case e.cause != nil:
		return fmt.Sprintf("reqwire: %s: %s", e.Kind, e.cause.Error())
	case e.msg != "":
		return fmt.Sprintf("reqwire: %s: %s", e.Kind, e.msg)
	default:
		return fmt.Sprintf("reqwire: %s", e.Kind)
	}
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timeout reports whether the error represents a client-side timeout.
// It allows *Error to participate in the net/url style timeout checks
// used throughout the net/http ecosystem.
func (e *Error) Timeout() bool {
	return e.Transience == Timeout
}
