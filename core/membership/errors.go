package membership

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUniverse = errors.New("universe must hold at least two finite, strictly increasing samples")
	ErrInvalidShape    = errors.New("invalid membership function parameters")
	ErrSetMismatch     = errors.New("membership degrees do not match universe")
)

// BuildError reports a malformed model definition. Build errors are always
// fatal for the definition that caused them.
type BuildError struct {
	Op   string
	Name string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("build %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("build %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

func buildError(op, name string, err error) error {
	return &BuildError{Op: op, Name: name, Err: err}
}
