package recorder

import (
	"errors"
	"fmt"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// Sentinel errors for operations invoked out of sequence and for
// configuration failures.
var (
	ErrAlreadyInitialized    = errors.New("engine already initialized")
	ErrNotInitialized        = errors.New("engine not initialized")
	ErrNotConfigured         = errors.New("no active configuration")
	ErrNotRecording          = errors.New("no recording in progress")
	ErrRecordingActive       = errors.New("recording in progress")
	ErrEngineUnreliable      = errors.New("engine state unreliable after protocol violation, shutdown and reinitialize")
	ErrNoResolutionAvailable = errors.New("engine reports no usable resolutions")
	ErrDisplayNotFound       = errors.New("no display at the requested index")
	ErrInvalidCaptureMode    = errors.New("invalid capture mode")
)

// EngineInitError reports that the engine refused to boot. The message
// depends on the status code so the user gets something actionable.
type EngineInitError struct {
	Code int
}

func (e *EngineInitError) Error() string {
	switch e.Code {
	case engine.InitMissingGraphicsAPI:
		return "engine init failed: the required graphics runtime is not installed"
	case engine.InitDriverFailure:
		return "engine init failed: video drivers may be out of date or the system is unsupported"
	default:
		return fmt.Sprintf("engine init failed with unknown code %d", e.Code)
	}
}

// ShutdownError wraps a failure during engine teardown. A failed
// shutdown is not recoverable within the process.
type ShutdownError struct {
	Err error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("engine shutdown failed: %v", e.Err)
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
