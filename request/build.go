// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/reqwire/reqwire/fault"
)

// FormMarker is the Content-Type substring that selects URL-encoded
// form body encoding for body-bearing methods.
const FormMarker = "application/x-www-form-urlencoded"

// Build translates a declarative descriptor into a wire request.
//
// The URL is the concatenation of base URL, API version prefix and
// path; a result that does not parse as an absolute URL fails with an
// InvalidURL fault. An absent or malformed method fails with a
// MissingMethod fault.
//
// A query payload is encoded into the URL query string: each
// non-absent field becomes a URL-escaped key=value pair, absent fields
// are omitted entirely, and field order is unspecified unless the
// payload type defines one (url.Values iteration order is map order).
//
// For POST, PUT and PATCH the body payload is encoded as a URL-encoded
// form string when the Content-Type header contains FormMarker, and as
// JSON bytes otherwise. For every other method the body is empty
// regardless of payload presence. Serialization failures surface as an
// EncodingFailed fault.
func Build(d Descriptor) (*Wire, error) {
	method := d.Method()
	if method == "" {
		return nil, fault.New(fault.MissingMethod, "descriptor declares no method")
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, fault.New(fault.MissingMethod, fmt.Sprintf("invalid method %q", method))
	}

	raw := d.BaseURL() + d.APIVersion() + d.Path()
	u, err := urlpkg.Parse(raw)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fault.New(fault.InvalidURL, fmt.Sprintf("not an absolute URL: %q", raw))
	}

	if q := d.Query(); q != nil {
		vals, err := encodeValues(q)
		if err != nil {
			return nil, err
		}
		if enc := vals.Encode(); enc != "" {
			if u.RawQuery != "" {
				u.RawQuery += "&" + enc
			} else {
				u.RawQuery = enc
			}
		}
	}

	header := make(http.Header, len(d.Header()))
	for k, v := range d.Header() {
		header.Set(k, v)
	}

	var body []byte
	if bodyBearing(method) {
		if payload := d.Body(); payload != nil {
			if strings.Contains(strings.ToLower(header.Get("Content-Type")), FormMarker) {
				vals, err := encodeValues(payload)
				if err != nil {
					return nil, err
				}
				body = []byte(vals.Encode())
			} else {
				body, err = json.Marshal(payload)
				if err != nil {
					return nil, fault.Wrap(fault.EncodingFailed, err)
				}
			}
		}
	}

	return &Wire{Method: method, URL: u, Header: header, Body: body}, nil
}

func bodyBearing(method string) bool {
	return strings.EqualFold(method, http.MethodPost) ||
		strings.EqualFold(method, http.MethodPut) ||
		strings.EqualFold(method, http.MethodPatch)
}

// Fields flattens a payload into a string-to-string field map, the
// form consumed by the multipart encoder. Absent fields are omitted.
func Fields(payload interface{}) (map[string]string, error) {
	if payload == nil {
		return nil, nil
	}
	vals, err := encodeValues(payload)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(vals))
	for k, vs := range vals {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}

// encodeValues turns a key/value payload into url.Values. Maps are
// consumed directly; any other payload makes a round trip through its
// JSON object form, which honors omitempty and drops absent optional
// fields.
func encodeValues(payload interface{}) (urlpkg.Values, error) {
	switch p := payload.(type) {
	case urlpkg.Values:
		return p, nil
	case map[string]string:
		vals := make(urlpkg.Values, len(p))
		for k, v := range p {
			vals.Set(k, v)
		}
		return vals, nil
	case map[string]interface{}:
		return valuesFromMap(p)
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fault.Wrap(fault.EncodingFailed, err)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var m map[string]interface{}
		if err := dec.Decode(&m); err != nil {
			return nil, fault.New(fault.EncodingFailed,
				fmt.Sprintf("payload of type %T is not a key/value object", payload))
		}
		return valuesFromMap(m)
	}
}

func valuesFromMap(m map[string]interface{}) (urlpkg.Values, error) {
	vals := make(urlpkg.Values, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		s, err := fieldString(v)
		if err != nil {
			return nil, err
		}
		vals.Set(k, s)
	}
	return vals, nil
}

func fieldString(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		// Nested objects and arrays travel in their JSON text form.
		b, err := json.Marshal(v)
		if err != nil {
			return "", fault.Wrap(fault.EncodingFailed, err)
		}
		return string(b), nil
	}
}
