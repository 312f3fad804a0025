package cmd

import (
	"errors"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitCapacity = 3
	ExitFormat   = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errs.ErrInvalidArgument):
		return ExitInvalid
	case errs.IsCapacity(err):
		return ExitCapacity
	case errs.IsFormat(err):
		return ExitFormat
	}
	return ExitFailure
}
