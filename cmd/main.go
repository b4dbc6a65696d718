package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/chinook/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := newApp(runner).Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to release resources", "error", cerr)
	}

	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotImplemented):
		logger.Warn("not implemented")
	case errors.Is(err, shared.ErrMissingConfig), errors.Is(err, shared.ErrInvalidConfig):
		logger.Fatal("configuration could not be loaded", "error", err)
	case errors.Is(err, shared.ErrLoggingSetup):
		logger.Fatal("logging could not be set up", "error", err)
	default:
		logger.Fatalf("application error: %v", err)
	}
}
