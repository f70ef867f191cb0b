// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A Detector identifies the MIME type of a binary payload. Detection
// may fail: ok reports whether the payload was identified. The ext
// return value includes the leading dot ("" when no extension is
// known for the detected type).
//
// The engine consumes detection results; package sniff supplies the
// default implementation.
type Detector interface {
	Detect(data []byte) (mimeType, ext string, ok bool)
}

// EncodeMultipart builds a multipart/form-data body from a flattened
// field map plus one binary payload, and returns the Content-Type
// header value that must accompany it. The header value overrides any
// previously set Content-Type on the request.
//
// A fresh random boundary token is generated per call. Each field
// becomes one part: a disposition line naming the field, a blank line,
// the value, CRLF. The binary payload becomes one final part whose
// filename is fileField plus the detected extension and whose
// Content-Type line carries the detector's verdict (empty when
// detection fails), followed by the raw bytes unmodified and the
// closing boundary marker.
//
// Field serialization order derives from an unordered map and is not
// guaranteed.
func EncodeMultipart(fields map[string]string, fileField string, blob []byte, det Detector) (contentType string, body []byte) {
	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")

	var b bytes.Buffer
	for name, value := range fields {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		fmt.Fprintf(&b, "Content-Disposition: form-data; name=%q\r\n\r\n", name)
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	var mimeType, ext string
	if det != nil {
		if mt, e, ok := det.Detect(blob); ok {
			mimeType, ext = mt, e
		}
	}

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	fmt.Fprintf(&b, "Content-Disposition: form-data; name=%q; filename=%q\r\n", fileField, fileField+ext)
	fmt.Fprintf(&b, "Content-Type: %s\r\n\r\n", mimeType)
	b.Write(blob)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--", boundary)

	return "multipart/form-data; boundary=" + boundary, b.Bytes()
}
