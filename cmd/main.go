// Command growup computes anthropometric z-scores against the WHO growth
// standards and the CDC growth reference.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/growup/internal/adapters/survey"
	"github.com/okian/growup/internal/config"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/pkg/logger"
)

// Exit codes.
const (
	exitOK       = 0
	exitRejected = 1 // the observation could not be scored
	exitError    = 2 // configuration, input file or table problems
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrLoadConfig),
		errors.Is(err, survey.ErrBadHeader), errors.Is(err, survey.ErrBadRow):
		return exitError
	case growth.Kind(err) != growth.KindUnknown:
		return exitRejected
	default:
		return exitError
	}
}
