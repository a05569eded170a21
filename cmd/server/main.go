package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stalked/server/internal/app"
	"stalked/server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{Logger: logger.Log}); err != nil {
		logger.Log.Fatal(err)
	}
}
