package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"businessathi/internal/logger"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	if _, err := logger.Setup(logger.Config{Level: "warn", Format: "console", Output: "stderr"}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		log := logger.WithComponent("bizctl")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
