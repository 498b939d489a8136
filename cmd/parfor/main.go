package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/parfor/internal/app"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := app.New(os.Args, os.Stderr).Run(ctx, os.Stdout)
	stop()
	os.Exit(exitCode)
}
