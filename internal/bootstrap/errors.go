package bootstrap

import (
	"errors"
	"fmt"
)

// ErrAborted means the operator declined the confirmation screen. Nothing was
// written; the process exits zero.
var ErrAborted = errors.New("setup aborted by user")

// ValidationError reports a required field missing or malformed for the
// selected TLS mode. It is always raised before any file is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ProvisioningError means the certificate authority client ran but no
// certificate came out of it. Hint names the likely operational cause so the
// operator is not left staring at an exit status.
type ProvisioningError struct {
	Step string
	Hint string
	Err  error
}

func (e *ProvisioningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (%s)", e.Step, e.Err, e.Hint)
	}
	return fmt.Sprintf("%s (%s)", e.Step, e.Hint)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
