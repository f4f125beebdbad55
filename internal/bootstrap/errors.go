package bootstrap

import (
	"errors"
	"fmt"
)

// ErrMalformedSerializer is returned when a serializer does not name a
// target model.
var ErrMalformedSerializer = errors.New("malformed serializer target")

// StartupError reports the bootstrap stage that failed.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// CommandConflictError is returned when two CLI commands share a name.
type CommandConflictError struct {
	Name string
}

func (e *CommandConflictError) Error() string {
	return fmt.Sprintf("command name conflict: %q is taken", e.Name)
}
