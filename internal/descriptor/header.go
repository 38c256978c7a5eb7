package descriptor

import "strings"

// Header is a case-insensitive string-to-string map, used for both request
// and response headers. HTTP requires header-name lookups to be
// case-insensitive; net/textproto's canonicalization is the usual stdlib
// route, but hook bodies build these maps directly so we normalize on
// write/read here instead of forcing every caller through textproto.
type Header map[string]string

// NewHeader returns an empty Header.
func NewHeader() Header {
	return make(Header)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set stores value under name, replacing any prior value regardless of
// case.
func (h Header) Set(name, value string) {
	h[normalizeKey(name)] = value
}

// Get returns the value stored under name, ignoring case. ok is false if
// absent.
func (h Header) Get(name string) (string, bool) {
	v, ok := h[normalizeKey(name)]
	return v, ok
}

// Del removes name, ignoring case.
func (h Header) Del(name string) {
	delete(h, normalizeKey(name))
}

// Keys returns the stored header names in no particular order. Renderers
// that need deterministic order should sort this slice themselves.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}
