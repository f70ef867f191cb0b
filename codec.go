// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import "encoding/json"

// A Codec turns decoded values into bytes and back. The engine's
// response decoding, unary and streaming, goes through the codec held
// in the execution state store; JSON is the default.
//
// Implementations of Codec must be safe for concurrent use by multiple
// goroutines.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSON is the default codec, backed by encoding/json.
var JSON Codec = &jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
