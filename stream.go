// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

import (
	"bytes"
	"io"

	"github.com/reqwire/reqwire/fault"
)

// streamChunk is the transport read size of the stream decoder.
const streamChunk = 4 << 10

// A Stream is a lazy sequence of values decoded incrementally from an
// open streaming response body, split on newlines. It is
// infinite-capable and not restartable: a new call creates a new
// stream.
//
// Iterate in the scanner idiom:
//
//	s, err := reqwire.ExecuteStream[Record](ctx, eng, d)
//	if err != nil { ... }
//	defer s.Close()
//	for s.Next() {
//		use(s.Value())
//	}
//	if err := s.Err(); err != nil { ... }
//
// A Stream is owned by a single consumer and is not safe for
// concurrent use.
type Stream[T any] struct {
	body    io.ReadCloser
	codec   Codec
	release func()

	buf   []byte
	scan  int
	chunk []byte

	cur    T
	err    error
	eof    bool
	done   bool
	closed bool
}

func newStream[T any](body io.ReadCloser, codec Codec, release func()) *Stream[T] {
	return &Stream[T]{
		body:    body,
		codec:   codec,
		release: release,
		chunk:   make([]byte, streamChunk),
	}
}

// Next advances the stream to the next decoded value, reading from the
// source as needed. It returns false when the source is exhausted, the
// stream is closed, or decoding fails; Err distinguishes failure from
// normal termination.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}
	for {
		if line, ok := s.nextSegment(); ok {
			var v T
			if err := s.codec.Unmarshal(line, &v); err != nil {
				s.fail(fault.Wrap(fault.Decoding, err))
				return false
			}
			s.cur = v
			return true
		}

		if s.eof {
			return s.finishTail()
		}
		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.buf = append(s.buf, s.chunk[:n]...)
		}
		if err == io.EOF {
			// Drain segments buffered by the final read before
			// handling the tail.
			s.eof = true
			continue
		}
		if err != nil {
			if s.closed {
				// Consumer abandonment, not a source failure.
				s.done = true
				return false
			}
			s.fail(fault.Classify(err))
			return false
		}
	}
}

// nextSegment scans the buffer from the cursor for a delimiter and, on
// a match, slices the segment before it and removes both from the
// buffer. Empty segments are skipped. ok reports whether a segment was
// produced.
func (s *Stream[T]) nextSegment() ([]byte, bool) {
	for {
		i := bytes.IndexByte(s.buf[s.scan:], '\n')
		if i < 0 {
			s.compact()
			return nil, false
		}
		line := s.buf[s.scan : s.scan+i]
		s.scan += i + 1
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) > 0 {
			return line, true
		}
	}
}

func (s *Stream[T]) compact() {
	if s.scan == 0 {
		return
	}
	n := copy(s.buf, s.buf[s.scan:])
	s.buf = s.buf[:n]
	s.scan = 0
}

// finishTail handles source exhaustion: a non-empty partial segment
// remaining in the buffer gets one final decode before termination.
func (s *Stream[T]) finishTail() bool {
	tail := bytes.TrimSuffix(s.buf[s.scan:], []byte{'\r'})
	if len(tail) == 0 {
		s.terminate(nil)
		return false
	}
	var v T
	if err := s.codec.Unmarshal(tail, &v); err != nil {
		s.fail(fault.Wrap(fault.Decoding, err))
		return false
	}
	s.cur = v
	s.terminate(nil)
	return true
}

// Value returns the value produced by the most recent successful call
// to Next.
func (s *Stream[T]) Value() T {
	return s.cur
}

// Err returns the error that terminated the stream, or nil if the
// stream ended normally, was closed, or is still open.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close cancels the underlying transport read and releases the
// stream's buffers. No background work continues after Close returns.
// It is safe to call Close multiple times, and safe to call while the
// stream is mid-iteration (the pending Next observes termination).
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.terminate(s.err)
	return nil
}

func (s *Stream[T]) fail(err error) {
	s.terminate(err)
}

func (s *Stream[T]) terminate(err error) {
	s.done = true
	s.err = err
	s.buf = nil
	s.scan = 0
	if s.body != nil {
		_ = s.body.Close()
		s.body = nil
	}
	if s.release != nil {
		s.release()
		s.release = nil
	}
}
