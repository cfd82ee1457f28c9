package soundscape

import (
	"errors"
	"fmt"
)

// EngineInitError reports that the output could not be opened or resumed.
// The engine stays uninitialized and Initialize may be retried.
type EngineInitError struct {
	Backend string
	Err     error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("soundscape: initialize %s output: %v", e.Backend, e.Err)
}

func (e *EngineInitError) Unwrap() error { return e.Err }

var (
	ErrNotInitialized = errors.New("soundscape: engine not initialized")
	ErrNotManual      = errors.New("soundscape: Render needs the none backend")
	ErrClosed         = errors.New("soundscape: engine closed")
)
