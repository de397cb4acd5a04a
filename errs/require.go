package errs

import (
	cerrors "github.com/cockroachdb/errors"
)

// Require panics, unconditionally and regardless of build tags, when cond is
// false. This is the "contractual assertion" mechanism described for the
// library as a whole: out-of-bounds access, inserting a key that is already
// present, exhausting an arena's reservation, and similar
// precondition violations are bugs in the caller, and the process aborts
// rather than returning a recoverable error.
func Require(cond bool, format string, args ...any) {
	if !cond {
		panic(cerrors.Newf(format, args...))
	}
}

// RequireWrap is Require for the case where the contract violation has a
// natural sentinel error to wrap (e.g. ErrUnknownPointer, ErrArenaExhausted).
func RequireWrap(cond bool, err error, format string, args ...any) {
	if !cond {
		panic(cerrors.Wrapf(err, format, args...))
	}
}
