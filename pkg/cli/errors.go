package cli

import "github.com/m-mizutani/goerr/v2"

var (
	errMissingArgument = goerr.New("missing argument")
	errInvalidArgument = goerr.New("invalid argument")
	errNotFound        = goerr.New("entry not found")
	errIntegerKeyOnly  = goerr.New("command requires the int key type")
)

const (
	argumentKey = "argument"
	valueKey    = "value"
)
