package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for dictionary operations
var (
	ErrValidation    = goerr.New("validation failed")
	ErrDecode        = goerr.New("malformed dictionary text")
	ErrIO            = goerr.New("dictionary I/O failed")
	ErrEmpty         = goerr.New("no entries available")
	ErrInvalidConfig = goerr.New("invalid configuration")
)

// Context keys for error values
const (
	IDKey       = "id"
	FieldKey    = "field"
	LocationKey = "location"
	OffsetKey   = "offset"
)

// IOFailure wraps err so that it matches both ErrIO and the original cause
func IOFailure(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrIO, err), msg, opts...)
}
