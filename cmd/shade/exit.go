package shade

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps a command error to the process exit code. Errors that abort
// a run (duplicate or misplaced entries, unreadable archives, bad rules or
// config) exit with ExitFailed; anything else is treated as a usage error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsFatal(err):
		return ExitFailed
	}
	return ExitUsage
}
