package smplx

import "errors"

// Sentinel failure kinds, per spec.md §7's taxonomy. Model-loading errors
// are fatal and wrap one of these; sequence-loading errors for optional or
// required fields degrade gracefully (see sequence.go) rather than
// returning one of these.
var (
	ErrFileNotFound              = errors.New("smplx: file not found")
	ErrMissingField              = errors.New("smplx: required field missing")
	ErrShapeMismatch             = errors.New("smplx: shape mismatch")
	ErrUnsupportedScalarWidth    = errors.New("smplx: unsupported scalar width")
	ErrUnsupportedVariantBinding = errors.New("smplx: unsupported variant binding")
	ErrIO                        = errors.New("smplx: i/o error")
)
