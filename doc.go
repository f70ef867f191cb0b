// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqwire is a generic request-execution engine: application
code describes HTTP-like calls declaratively and the engine translates
them into wire requests, dispatches them through a pluggable
transport, retries transient failures under a pluggable retry policy,
and decodes the result, either as one buffered value or as a lazy
sequence decoded incrementally from a line-delimited stream.

The zero value of Engine is a valid configuration:

	var eng reqwire.Engine

	user, err := reqwire.Execute[User](ctx, &eng, request.Endpoint{
		Base:    "https://api.example.com",
		Verb:    "GET",
		Route:   "/users/42",
		Version: "/v2",
	})

Retry behavior is installed through the engine's state store:

	eng.State().SetRetryPolicy(retry.Transient)

All calls on one engine share a single serialized state store holding
the response codec, the active retry policy, the pending-retry queue
and the set of in-flight sessions; Engine.CancelAll invalidates every
in-flight call through it in one atomic step. Everything else is
per-call state, so concurrent calls never contend beyond the store.

Streaming responses are consumed through Stream, whose Close tears
down the transport read promptly:

	s, err := reqwire.ExecuteStream[Tick](ctx, &eng, d)
	if err != nil { ... }
	defer s.Close()
	for s.Next() {
		use(s.Value())
	}
	if err := s.Err(); err != nil { ... }

Every error the engine surfaces carries a classification from the
fault package; builder-stage faults bypass the retry loop entirely,
execution-stage faults are offered to the retry policy first.
*/
package reqwire
