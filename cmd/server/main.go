package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bootstrap"
)

// defaultShutdownTimeout applies when the configuration sets none.
const defaultShutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], bootstrap.New, os.Stderr))
}

// run builds the application, executes one CLI command and releases
// extension resources whichever command ran.
func run(ctx context.Context, args []string, newApp func() (*app.Application, error), stderr io.Writer) int {
	a, err := newApp()
	if err != nil {
		var conflict *bootstrap.CommandConflictError
		if !errors.As(err, &conflict) {
			fmt.Fprintf(stderr, "Failed to start: %v\n", err)
		}
		return 1
	}
	defer func() { _ = a.Logger.Sync() }()

	execErr := a.Execute(ctx, args)
	shutdown(a)

	if execErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", execErr)
		return 1
	}
	return 0
}

func shutdown(a *app.Application) {
	timeout := defaultShutdownTimeout
	if a.Config != nil && a.Config.Server.ShutdownTimeout > 0 {
		timeout = a.Config.Server.ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		a.Logger.Warn("Extension shutdown reported errors", zap.Error(err))
	}
}
