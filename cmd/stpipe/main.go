package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/askiada/go-stpipe/internal/cli"
	_ "github.com/askiada/go-stpipe/pkg/steps"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
