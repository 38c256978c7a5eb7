// Package descriptor defines the value object a hook function hands back to
// the dispatcher: status, body, headers, caching hints and an optional
// manual-delegation target.
package descriptor

import "io"

// DataKind tags which variant of Data a Descriptor carries. Using an
// explicit tag (rather than duck-typing on the Go type of an interface{}
// field) keeps the renderer's switch exhaustive and keeps zero-value
// Descriptors unambiguous: the zero Descriptor carries KindNone.
type DataKind int

const (
	KindNone DataKind = iota
	KindBytes
	KindText
	KindStream
)

// Data is the tagged body payload of a Descriptor. Exactly one of Bytes,
// Text or Stream is meaningful, selected by Kind.
type Data struct {
	Kind   DataKind
	Bytes  []byte
	Text   string
	Stream io.Reader
	// Length is the declared length of Stream, if known. Zero/negative
	// means unknown; no Content-Length header is emitted in that case.
	Length int64
}

// BytesData wraps a byte slice body.
func BytesData(b []byte) Data { return Data{Kind: KindBytes, Bytes: b} }

// TextData wraps a UTF-8 string body.
func TextData(s string) Data { return Data{Kind: KindText, Text: s} }

// StreamData wraps a streaming body. length <= 0 means unknown.
func StreamData(r io.Reader, length int64) Data {
	return Data{Kind: KindStream, Stream: r, Length: length}
}

// Len returns the byte length of a Bytes/Text payload, and 0 otherwise.
// Stream length is reported separately via Data.Length since it isn't
// materialized.
func (d Data) Len() int {
	switch d.Kind {
	case KindBytes:
		return len(d.Bytes)
	case KindText:
		return len(d.Text)
	default:
		return 0
	}
}

// Descriptor is what a hook function returns to describe the HTTP response
// it wants rendered, or a request to delegate rendering to another hook.
type Descriptor struct {
	Status int
	Data   Data
	// DataType is the MIME type of Data; empty defers to the renderer's
	// default of application/octet-stream.
	DataType string
	// Headers holds caller-supplied response headers. Lookups are
	// case-insensitive per HTTP semantics (see Header below).
	Headers Header
	// EntityTag is emitted as the ETag header when HasEntityTag is set.
	EntityTag string
	// HasEntityTag distinguishes "no ETag" from an intentionally empty one.
	HasEntityTag bool
	// MaxAge is the Cache-Control max-age in seconds. Only meaningful when
	// HasMaxAge is set; otherwise the response is marked not-cacheable.
	MaxAge    int
	HasMaxAge bool
	// Manual, if non-empty, names a hook to which full response writing is
	// delegated (see §4.2's "manual mode").
	Manual string
	// Error marks a fatal error produced while running the hook (distinct
	// from a deliberately-rendered error status).
	Error bool
}

// Valid reports whether the descriptor carries enough information to be
// rendered without delegation: either a manual target, or a status in
// [100, 600).
func (d Descriptor) Valid() bool {
	if d.Manual != "" {
		return true
	}
	return d.Status >= 100 && d.Status < 600
}
