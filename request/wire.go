// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	urlpkg "net/url"
)

// A ProgressFunc receives upload progress notifications: the
// cumulative number of body bytes handed to the transport, the total
// body size, and the fraction sent (0 when the total is unknown). It
// is invoked zero or more times before the call completes.
type ProgressFunc func(sent, total int64, fraction float64)

// A Wire is a fully resolved request ready for transport. It is built
// once per call by Build and is immutable thereafter; a retry policy
// that wants to alter the next attempt produces a modified copy via
// Clone rather than mutating in place.
type Wire struct {
	// Method is the HTTP method. Always non-empty.
	Method string

	// URL is the absolute URL to access, query string included.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent.
	Header http.Header

	// Body is the pre-buffered request body. Nil or empty means no
	// body is sent.
	Body []byte

	// Progress, when non-nil, is notified as the transport consumes
	// the body. Set by the upload path.
	Progress ProgressFunc
}

// Clone returns a copy of w that shares no mutable structure with the
// original. Retry policies use it to derive the next attempt's request.
func (w *Wire) Clone() *Wire {
	w2 := &Wire{
		Method:   w.Method,
		Header:   make(http.Header, len(w.Header)),
		Body:     w.Body,
		Progress: w.Progress,
	}
	if w.URL != nil {
		u := *w.URL
		w2.URL = &u
	}
	for k, vs := range w.Header {
		w2.Header[k] = append([]string(nil), vs...)
	}
	return w2
}

// ToRequest creates the lower-level http.Request corresponding to the
// wire request. The context of the new request is set to ctx. The body
// is replayable via GetBody, so the standard client can re-send it on
// redirects.
func (w *Wire) ToRequest(ctx context.Context) *http.Request {
	r := &http.Request{
		Method:     w.Method,
		URL:        w.URL,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     w.Header,
		Host:       w.URL.Host,
	}
	r = r.WithContext(ctx)
	if len(w.Body) > 0 {
		total := int64(len(w.Body))
		open := func() io.ReadCloser {
			var rd io.Reader = bytes.NewReader(w.Body)
			if w.Progress != nil {
				rd = &progressReader{r: rd, total: total, report: w.Progress}
			}
			return io.NopCloser(rd)
		}
		r.Body = open()
		r.GetBody = func() (io.ReadCloser, error) { return open(), nil }
		r.ContentLength = total
	}
	return r
}

type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		var fraction float64
		if p.total > 0 {
			fraction = float64(p.sent) / float64(p.total)
		}
		p.report(p.sent, p.total, fraction)
	}
	return n, err
}
