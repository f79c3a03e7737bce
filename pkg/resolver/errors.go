package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("resolver misconfigured")
	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("song could not be resolved")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("identification service unreachable")
)

// genericResolutionMessage is used when the server gave no message of its own.
const genericResolutionMessage = "Failed to identify song"

// ConfigurationError means the backend endpoint or its credentials are
// unusable. Retrying without reconfiguration will not help.
type ConfigurationError struct {
	StatusCode int
	Message    string
}

func (e *ConfigurationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("configuration error (status %d): %s", e.StatusCode, e.Message)
	}
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ResolutionError means the server was reached but could not identify the
// song. Message is the server's user-facing explanation.
type ResolutionError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *ResolutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// TransportError means the server could not be reached or its response could
// not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
