package main

import (
	"os"

	"klarpakke/internal/cli"
	"klarpakke/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := cli.NewRootCommand().Execute(); err != nil {
		logger.Get().Errorf("Error: %v", err)
		os.Exit(1)
	}
}
