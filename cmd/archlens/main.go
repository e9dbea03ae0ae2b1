package main

import (
	"os"

	"archlens/internal/logging"
)

func main() {
	logger := logging.NewLogger(logging.Config{Format: logging.FormatHuman, Level: logging.Info})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command execution failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
