package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	service "github.com/pixil98/go-service"

	"github.com/pixil98/go-crisis/cmd/crisis-watch/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		slog.Error("creating application", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	if err != nil {
		slog.Error("running application", "error", err)
		os.Exit(1)
	}
}
