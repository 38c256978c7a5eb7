package config

import "fmt"

// FieldError names the offending config path and the reason it was
// rejected, so a -check-config run can point an operator at the exact
// field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

func siteField(host, field string) string {
	if host == "" {
		return fmt.Sprintf("Sites[].%s", field)
	}
	return fmt.Sprintf("Sites[%s].%s", host, field)
}
