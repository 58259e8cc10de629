package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk16/reversi/internal"
	"github.com/lk16/reversi/internal/config"
)

const pruneInterval = time.Minute

func main() {
	config.SetLogLevel()

	// Setup app
	app := internal.SetupApp()
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Remove idle sessions in the background
	go app.Manager.Run(ctx, pruneInterval)

	go func() {
		<-ctx.Done()
		_ = app.Fiber.Shutdown()
	}()

	// Start server
	address := app.Config.ServerHost + ":" + app.Config.ServerPort
	if err := app.Fiber.Listen(address); err != nil {
		log.Fatal(err)
	}
}
