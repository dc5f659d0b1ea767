package importer

import (
	"errors"
	"fmt"
)

// skipError marks a recoverable per-record condition: the record is skipped
// with a logged reason and the run continues.
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return e.reason
}

func skipf(format string, args ...any) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

func asSkip(err error, target **skipError) bool {
	return errors.As(err, target)
}
