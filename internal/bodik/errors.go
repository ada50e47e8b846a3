// errors.go defines sentinel errors for the three failure classes.
//
// Separated to centralise error definitions. These errors are used with
// errors.Is() for type-safe error checking. Detailed messages are
// provided by wrapping these with fmt.Errorf at the failure site, so a
// wrapped error reads "validation: apiname is required".

package bodik

import "errors"

var (
	// ErrValidation marks bad or missing tool input. Raised before any
	// network I/O happens.
	ErrValidation = errors.New("validation")

	// ErrTransport marks network-level failures: timeouts, DNS errors,
	// refused connections. The caller may simply re-invoke.
	ErrTransport = errors.New("transport")

	// ErrUpstream marks responses the BODIK API itself produced: a
	// non-2xx status or a body that is not valid JSON.
	ErrUpstream = errors.New("upstream")
)
