package tally

import (
	"errors"
	"fmt"
)

var ErrNotBatchKind = errors.New("entity kind is not synced in batches")

// ValidationError reports a record that cannot be stored. Record is 1-based within the
// batch and zero when the error came from a single-record sync.
type ValidationError struct {
	Record int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("record %d: %s %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsValidation reports whether err was caused by malformed input rather than storage.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
