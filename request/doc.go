// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request defines the declarative request model of the
// reqwire engine and the builder that resolves it.
//
// A Descriptor is the caller's declarative description of one call: a
// base URL, method, path, header map, optional body and query payloads
// and an optional API version prefix. Build translates a Descriptor
// into a Wire, the fully resolved request handed to the transport,
// deciding body-vs-query placement and JSON-vs-form body encoding from
// the declared method and Content-Type header.
//
// EncodeMultipart builds upload bodies: a multipart/form-data byte
// body combining flattened form fields with one binary payload whose
// MIME type is supplied by a Detector collaborator.
package request
