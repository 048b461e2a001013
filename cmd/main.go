package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/mympctl/internal/shared"
)

// exitCode maps an error returned by the app to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, shared.ErrNotImplemented), errors.Is(err, shared.ErrNoOpMove):
		return 0
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidPath),
		errors.Is(err, shared.ErrNotFound):
		return 2
	default:
		return 1
	}
}

func main() {
	logger := shared.NewLogger(nil)
	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	err := app.Run(context.Background(), os.Args)
	if err == nil {
		return
	}

	code := exitCode(err)
	switch {
	case code == 0:
		logger.Warn("nothing done", "err", err)
	case code == 2:
		logger.Error("invalid input", "err", err)
	case errors.Is(err, shared.ErrBackend):
		logger.Error("myMPD rejected the request", "err", err)
	default:
		logger.Fatalf("application error: %v", err)
	}
	os.Exit(code)
}
