// cmd/ore/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jaxiii/ore-cli/internal/output"
	"github.com/Jaxiii/ore-cli/internal/sender"
)

// Exit codes. Scripts branch on these, so they are stable.
const (
	exitOK                = 0
	exitFailure           = 1
	exitTargetClaimed     = 3
	exitInsufficientFunds = 4
	exitNotConfirmed      = 5
	exitCancelled         = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		a.printer.Error("%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error onto a process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, output.ErrCancelled) {
		return exitCancelled
	}
	switch sender.Class(err) {
	case "target_already_claimed":
		return exitTargetClaimed
	case "insufficient_funds":
		return exitInsufficientFunds
	case "confirmation_timeout":
		return exitNotConfirmed
	case "canceled":
		return exitCancelled
	default:
		return exitFailure
	}
}
