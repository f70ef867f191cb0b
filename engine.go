// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/reqwire/reqwire/fault"
	"github.com/reqwire/reqwire/request"
	"github.com/reqwire/reqwire/retry"
	"github.com/reqwire/reqwire/sniff"
)

// DefaultAttemptTimeout is the per-attempt timeout used when the
// engine is constructed without one.
const DefaultAttemptTimeout = 5 * time.Second

// errorBodyLimit caps how much of a failed streaming response body is
// buffered into the HTTP-kind error.
const errorBodyLimit = 64 << 10

// An Engine executes declarative request descriptors: it builds the
// wire request, dispatches it through the Transport, retries failed
// attempts under the active retry policy, and decodes the response.
// Its zero value is a valid configuration.
//
// The zero value engine uses http.DefaultClient as the transport,
// retry.None as the retry policy (no retries), the JSON codec for
// response decoding, DefaultAttemptTimeout per attempt, no per-call
// window, no rate limiting, no logging and no event handlers.
//
// All calls on one Engine share a single execution State; everything
// else (wire request, retry budget, stream buffer, transport session)
// is per-call. An Engine is safe for concurrent use by multiple
// goroutines, and should be reused rather than created per call since
// its transport typically caches TCP connections.
type Engine struct {
	// Transport specifies the mechanics of dispatching wire requests.
	// If nil, an HTTP transport over http.DefaultClient is used.
	Transport Transport

	// AttemptTimeout bounds each individual request attempt. Zero
	// selects DefaultAttemptTimeout; a negative value disables the
	// per-attempt timeout. Fixed at engine construction, not
	// overridable per call.
	AttemptTimeout time.Duration

	// CallTimeout bounds an entire call, attempts, retry waits and
	// stream consumption included. Zero means no per-call window.
	CallTimeout time.Duration

	// Logger receives request and response log lines at debug level
	// and failures at error level. If nil, nothing is logged.
	Logger *zerolog.Logger

	// Limiter, when non-nil, is waited on before every attempt,
	// bounding the engine's aggregate attempt rate.
	Limiter *rate.Limiter

	// Detector identifies MIME types for upload bodies. If nil,
	// sniff.Default is used.
	Detector request.Detector

	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a call. If nil, no handlers run.
	Handlers *HandlerGroup

	once  sync.Once
	state *State
}

// An Attempt carries the in-flight state of one request attempt within
// a call. Handlers receive it at each plug-in point; they must treat
// the fields as read-only.
type Attempt struct {
	// Wire is the request being attempted.
	Wire *request.Wire
	// Number is the zero-based attempt number: zero on the initial
	// attempt, one on the first retry, and so on.
	Number int
	// Response is the buffered response of the most recent attempt,
	// nil if it ended in an error or has not concluded.
	Response *Response
	// Err is the classified error of the most recent attempt, nil if
	// it succeeded or has not concluded.
	Err error
}

// State returns the engine's execution state store. The store is
// created on first use and lives for the engine's lifetime.
func (e *Engine) State() *State {
	e.once.Do(func() {
		e.state = newState()
	})
	return e.state
}

// CancelAll invalidates every in-flight call on the engine and clears
// the pending-retry queue. It returns without waiting for the
// cancelled calls to observe their failure. Calls started after
// CancelAll returns are unaffected.
func (e *Engine) CancelAll() {
	e.State().CancelAll()
}

// Do executes a descriptor and returns the raw buffered response. It
// is the non-generic core that Execute builds on: the response body is
// returned undecoded, but status classification and retries follow the
// same rules.
func (e *Engine) Do(ctx context.Context, d request.Descriptor) (*Response, error) {
	return e.call(ctx, d, nil)
}

func (e *Engine) call(ctx context.Context, d request.Descriptor, decode func(*Response) error) (*Response, error) {
	w, err := request.Build(d)
	if err != nil {
		return nil, fault.Wrap(fault.Unknown, err)
	}
	return e.callWire(ctx, w, decode)
}

func (e *Engine) callWire(ctx context.Context, w *request.Wire, decode func(*Response) error) (*Response, error) {
	ctx, release := e.openSession(ctx)
	defer release()
	return e.loop(ctx, w, e.sendDispatch(decode))
}

// openSession derives the per-call context and registers its cancel
// func in the state store so CancelAll can invalidate the session. The
// returned release func is idempotent.
func (e *Engine) openSession(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	var cancel context.CancelFunc
	if e.CallTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.CallTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	st := e.State()
	id := st.AddSession(cancel)
	var once sync.Once
	release := func() {
		once.Do(func() {
			st.RemoveSession(id)
			cancel()
		})
	}
	return ctx, release
}

// sendDispatch returns the dispatch function for buffered calls: one
// transport round trip under the attempt timeout, status
// classification, and response decoding when a decoder is supplied.
func (e *Engine) sendDispatch(decode func(*Response) error) dispatchFunc {
	return func(ctx context.Context, w *request.Wire) (*Response, *fault.Error) {
		actx, cancel := e.attemptContext(ctx)
		defer cancel()
		resp, err := e.transport().Send(actx, w)
		if err != nil {
			return nil, fault.Classify(err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp, fault.NewHTTP(resp.StatusCode, resp.Body)
		}
		if decode != nil {
			if derr := decode(resp); derr != nil {
				return resp, fault.Wrap(fault.Decoding, derr)
			}
		}
		return resp, nil
	}
}

type dispatchFunc func(ctx context.Context, w *request.Wire) (*Response, *fault.Error)

// loop is the retry state machine. Each iteration is one attempt:
// dispatch, classify, and either succeed, surface the classified error
// (budget exhausted or retry declined), or ask the policy for the next
// wire request and go again. The pending-retry queue records the
// request awaiting retry and is cleared at the start of each attempt.
func (e *Engine) loop(ctx context.Context, w *request.Wire, dispatch dispatchFunc) (*Response, error) {
	st := e.State()
	policy := st.RetryPolicy()
	budget := policy.NumberOfRetries()
	hs := e.handlers()

	a := &Attempt{Wire: w}
	defer hs.run(AfterEnd, a)

	for {
		st.ClearPendingRetries()
		if err := ctx.Err(); err != nil {
			a.Err = fault.Classify(err)
			return nil, a.Err
		}
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				a.Err = fault.Classify(err)
				return nil, a.Err
			}
		}

		hs.run(BeforeAttempt, a)
		e.logRequest(a)
		resp, ferr := dispatch(ctx, a.Wire)
		a.Response = resp
		if ferr != nil {
			a.Err = ferr
		} else {
			a.Err = nil
		}
		e.logResponse(a)
		hs.run(AfterAttempt, a)

		if ferr == nil {
			return resp, nil
		}
		if a.Number >= budget || !policy.ShouldRetry(a.Wire, ferr) {
			return resp, ferr
		}

		next := policy.ModifyForRetry(a.Wire, ferr)
		if next == nil {
			next = a.Wire.Clone()
		}
		st.AppendPendingRetry(next)

		if waiter, ok := policy.(retry.Waiter); ok {
			timer := time.NewTimer(waiter.Wait(a.Number))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				a.Err = fault.Classify(ctx.Err())
				return nil, a.Err
			}
		}

		a.Wire = next
		a.Number++
		a.Response = nil
		a.Err = nil
		hs.run(AfterRetry, a)
	}
}

func (e *Engine) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	d := e.AttemptTimeout
	if d == 0 {
		d = DefaultAttemptTimeout
	}
	if d < 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (e *Engine) transport() Transport {
	if e.Transport != nil {
		return e.Transport
	}
	return NewHTTPTransport(nil)
}

func (e *Engine) detector() request.Detector {
	if e.Detector != nil {
		return e.Detector
	}
	return sniff.Default
}

var emptyHandlers = HandlerGroup{}

func (e *Engine) handlers() *HandlerGroup {
	if e.Handlers != nil {
		return e.Handlers
	}
	return &emptyHandlers
}

func (e *Engine) logRequest(a *Attempt) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug().
		Str("method", a.Wire.Method).
		Stringer("url", a.Wire.URL).
		Int("attempt", a.Number).
		Int("body_bytes", len(a.Wire.Body)).
		Msg("dispatching request")
}

func (e *Engine) logResponse(a *Attempt) {
	if e.Logger == nil {
		return
	}
	if a.Err != nil {
		e.Logger.Error().
			Err(a.Err).
			Int("attempt", a.Number).
			Msg("attempt failed")
		return
	}
	e.Logger.Debug().
		Int("status", a.Response.StatusCode).
		Int("attempt", a.Number).
		Int("body_bytes", len(a.Response.Body)).
		Msg("response received")
}

// Execute executes a descriptor and decodes the 2xx response body as
// T using the codec held in the engine's state store. An empty 2xx
// body yields the zero value of T.
//
// Builder failures surface immediately as an Unknown-kind fault
// wrapping the precise builder error, bypassing the retry loop.
// Execution failures are classified (Transport, HTTP, Decoding) and
// offered to the retry policy while budget remains; once retries are
// declined or exhausted the classified error is surfaced unchanged.
func Execute[T any](ctx context.Context, e *Engine, d request.Descriptor) (T, error) {
	var out T
	codec := e.State().Codec()
	decode := func(r *Response) error {
		if len(r.Body) == 0 {
			return nil
		}
		var v T
		if err := codec.Unmarshal(r.Body, &v); err != nil {
			return err
		}
		out = v
		return nil
	}
	if _, err := e.call(ctx, d, decode); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Upload executes a descriptor as a multipart upload: the descriptor's
// body payload is flattened into form fields, combined with the binary
// payload under fieldName, and sent with a multipart/form-data
// Content-Type that overrides any declared on the descriptor. The 2xx
// response body is decoded as T.
//
// The progress callback, if non-nil, receives cumulative bytes sent,
// total bytes and a fractional progress value, zero or more times
// before completion.
func Upload[T any](ctx context.Context, e *Engine, d request.Descriptor, fieldName string, blob []byte, progress request.ProgressFunc) (T, error) {
	var out T
	w, err := request.Build(d)
	if err != nil {
		return out, fault.Wrap(fault.Unknown, err)
	}
	fields, err := request.Fields(d.Body())
	if err != nil {
		return out, err
	}
	contentType, body := request.EncodeMultipart(fields, fieldName, blob, e.detector())
	w.Header.Set("Content-Type", contentType)
	w.Body = body
	w.Progress = progress

	codec := e.State().Codec()
	decode := func(r *Response) error {
		if len(r.Body) == 0 {
			return nil
		}
		var v T
		if err := codec.Unmarshal(r.Body, &v); err != nil {
			return err
		}
		out = v
		return nil
	}
	if _, err := e.callWire(ctx, w, decode); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ExecuteStream executes a descriptor and returns a lazy sequence
// decoding the response body incrementally as newline-delimited values
// of T. Connection establishment follows the same retry rules as
// Execute; a non-2xx status surfaces as an HTTP-kind fault carrying up
// to 64 KiB of the response body.
//
// The returned stream is not restartable; a new call creates a new
// stream. Closing the stream cancels the underlying transport read
// promptly and releases all buffers.
func ExecuteStream[T any](ctx context.Context, e *Engine, d request.Descriptor) (*Stream[T], error) {
	w, err := request.Build(d)
	if err != nil {
		return nil, fault.Wrap(fault.Unknown, err)
	}

	ctx, release := e.openSession(ctx)

	var body io.ReadCloser
	dispatch := func(actx context.Context, w *request.Wire) (*Response, *fault.Error) {
		resp, rc, err := e.transport().Stream(actx, w)
		if err != nil {
			return nil, fault.Classify(err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(rc, errorBodyLimit))
			_ = rc.Close()
			return resp, fault.NewHTTP(resp.StatusCode, raw)
		}
		body = rc
		return resp, nil
	}

	// Stream attempts run on the call context directly: the attempt
	// timeout would tear the body down mid-consumption.
	if _, err := e.loop(ctx, w, dispatch); err != nil {
		release()
		return nil, err
	}

	return newStream[T](body, e.State().Codec(), release), nil
}
