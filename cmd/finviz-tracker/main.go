package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/trogers1052/finviz-tracker/cmd/finviz-tracker/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
