package migrate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAborted is returned when the operator declines to continue
var ErrAborted = errors.New("migration aborted by operator")

// EnvironmentError reports a failed environment together with the output
// files earlier environments already left on disk.
type EnvironmentError struct {
	Environment string
	Written     []string
	Err         error
}

func (e *EnvironmentError) Error() string {
	msg := fmt.Sprintf("migrating %s: %v", e.Environment, e.Err)
	if len(e.Written) > 0 {
		msg += fmt.Sprintf(" (already written: %s)", strings.Join(e.Written, ", "))
	}
	return msg
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
