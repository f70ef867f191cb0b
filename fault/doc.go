// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault defines the error taxonomy of the reqwire request
// execution engine.
//
// Every error the engine surfaces is a *fault.Error carrying a Kind.
// Builder-stage kinds (InvalidURL, MissingMethod, EncodingFailed) fail
// fast and are never offered to the retry policy. Execution-stage
// kinds (Transport, Decoding, HTTP) are classified before the retry
// policy sees them, and are surfaced unchanged once retries are
// declined or exhausted.
//
// Transport errors additionally carry a Transience category so retry
// policies can distinguish timeouts and connection-level failures,
// which have some prospect of clearing up on retry, from failures that
// will recur no matter how many times the request is resent.
package fault
