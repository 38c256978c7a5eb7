package descriptor

import "net/http"

// ReasonPhrase returns the standard reason phrase for status, falling back
// to a generic phrase for codes net/http doesn't recognize (custom daemons
// regularly use out-of-table codes like 529 in the wild).
func ReasonPhrase(status int) string {
	if phrase := http.StatusText(status); phrase != "" {
		return phrase
	}
	return "Unknown Status"
}
