package hunt

import "strings"

// ValidationError reports request fields that are missing or blank. It is
// returned before any network call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "hunt: missing required fields: " + strings.Join(e.Fields, ", ")
}

// SearchError reports a failed provider search for one category. Err is the
// transport error or the *google.StatusError.
type SearchError struct {
	Category string
	Err      error
}

func (e *SearchError) Error() string {
	return "hunt: search " + e.Category + ": " + e.Err.Error()
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
