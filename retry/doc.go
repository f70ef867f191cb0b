// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides pluggable policies deciding whether, and
// with what request, the reqwire engine retries failed attempts.
//
// A Policy couples a per-call retry budget with a retry condition and
// a request modifier. Conditions are composable: build them from
// OnTransient, OnTransport and OnStatus using ShouldFunc.And and
// ShouldFunc.Or. Wait strategies between attempts are attached with
// WithWait; NewExpWaiter implements jittered exponential backoff.
//
// The engine default is None, which retries nothing. Transient is a
// ready-made policy for the common case of retrying transient
// transport failures and throttling status codes.
package retry
