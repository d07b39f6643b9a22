package catalog

import "strings"

// DatabaseError wraps a failure raised by the database driver during
// connect or query. Callers branch on it to distinguish driver failures
// from unexpected ones.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string {
	return e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// FirstLine returns only the first line of the driver message.
// Postgres drivers append multi-line diagnostics (detail, hint, position)
// that should not leak to clients.
func (e *DatabaseError) FirstLine() string {
	msg := e.Err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
