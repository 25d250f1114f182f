package servicenow

import (
	"github.com/cockroachdb/errors"
)

// Error kinds. Callers classify with the IsX helpers; every error produced by
// this package is marked with exactly one of these sentinels.
var (
	// ErrValidation marks malformed input rejected before any network call.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication marks rejected credentials at connect time.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRemoteQuery marks network failures, timeouts, non-2xx responses and
	// malformed response bodies. Every remote call is attempted exactly once.
	ErrRemoteQuery = errors.New("remote query failed")

	// ErrNotFound marks an absent property, plugin or table row. Checks map
	// this to a definite false verdict rather than surfacing it.
	ErrNotFound = errors.New("record not found")
)

func IsValidation(err error) bool     { return errors.Is(err, ErrValidation) }
func IsAuthentication(err error) bool { return errors.Is(err, ErrAuthentication) }
func IsRemoteQuery(err error) bool    { return errors.Is(err, ErrRemoteQuery) }
func IsNotFound(err error) bool       { return errors.Is(err, ErrNotFound) }

func validationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func authenticationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrAuthentication)
}

func remoteQueryError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrRemoteQuery)
}

func remoteQueryErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrRemoteQuery)
}

func notFoundErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}
