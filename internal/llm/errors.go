// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"time"
)

// ErrClientUnavailable reports that no provider handle was configured.
// Generate wraps it with the provider name, e.g. "openai client not available".
var ErrClientUnavailable = errors.New("client not available")

// CredentialError reports a missing provider credential. No network call is
// made when it is returned.
type CredentialError struct {
	Name string
}

func (e *CredentialError) Error() string {
	return e.Name + " not set"
}

// Attempt describes one failed model attempt.
type Attempt struct {
	Model   string
	Number  int
	Err     error
	Elapsed time.Duration
}

// ExhaustedError reports that every model in the fallback list failed.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if last := e.last(); last != nil {
		return "Could not generate content - " + last.Error()
	}
	return "Could not generate content - unknown error"
}

// Unwrap returns the last attempt's failure.
func (e *ExhaustedError) Unwrap() error {
	return e.last()
}

func (e *ExhaustedError) last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
