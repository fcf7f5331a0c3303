package main

import (
	"fmt"
	"os"

	"btt/internal/config"
	btterrors "btt/internal/errors"
	"btt/internal/logging"
)

// mustLoadConfig loads the configuration or exits. Commands share a
// single config load at the start of their run function.
func mustLoadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the logger from the loaded configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}

// exitErr prints a btt error with its suggested fixes and exits.
func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if be, ok := err.(*btterrors.BttError); ok {
		for _, fix := range be.SuggestedFixes {
			fmt.Fprintf(os.Stderr, "  Try: %s  (%s)\n", fix.Command, fix.Description)
		}
	}
	os.Exit(1)
}

// exitAborted ends a command after the user declined a confirmation.
func exitAborted() {
	fmt.Println("Not proceeding.")
	os.Exit(0)
}
