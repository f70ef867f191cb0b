// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sniff supplies the default MIME detection collaborator used
// by the reqwire upload path. Detection is content-based, using the
// standard library's magic-number sniffing, with a small extension
// table mapping detected types to filename extensions.
package sniff

import (
	"net/http"
	"strings"
)

// A ContentDetector detects MIME types from content magic numbers. It
// implements the request.Detector interface. The zero value is ready
// to use.
type ContentDetector struct{}

// Default is a shared ready-to-use detector.
var Default = ContentDetector{}

// Detect identifies the MIME type and filename extension of data. It
// reports ok=false when the payload is empty or the content cannot be
// identified more precisely than an opaque byte stream.
func (ContentDetector) Detect(data []byte) (mimeType, ext string, ok bool) {
	if len(data) == 0 {
		return "", "", false
	}
	mimeType = http.DetectContentType(data)
	if mimeType == "application/octet-stream" {
		return "", "", false
	}
	return mimeType, Extension(mimeType), true
}

// Extension returns the conventional filename extension, leading dot
// included, for a detected MIME type. Unknown types yield "".
func Extension(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return extensions[mimeType]
}

var extensions = map[string]string{
	"image/png":        ".png",
	"image/jpeg":       ".jpg",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/bmp":        ".bmp",
	"image/x-icon":     ".ico",
	"application/pdf":  ".pdf",
	"application/zip":  ".zip",
	"application/wasm": ".wasm",
	"audio/mpeg":       ".mp3",
	"audio/wave":       ".wav",
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"text/plain":       ".txt",
	"text/html":        ".html",
	"text/xml":         ".xml",
}
