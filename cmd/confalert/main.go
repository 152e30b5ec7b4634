package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ConfAlert/internal/app"
	"ConfAlert/internal/config"
	"ConfAlert/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
