package main

import (
	"fmt"
	"os"

	"github.com/chatcart/backend/config"
	httpDelivery "github.com/chatcart/backend/internal/delivery/http"
	"github.com/chatcart/backend/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "chatcart",
	Short: "Shopping assistant backend for VTEX stores",
	Long: `chatcart turns free-text shopping requests into catalog products.

Commands:
  chatcart serve        Run the HTTP API
  chatcart ask "..."    Run one message through the pipeline and print the JSON answer

Configuration comes from config.yaml, .env and CHATCART_* environment variables.`,
	Version:       httpDelivery.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level override: debug, info, warn, error")
}

// loadRuntime reads the configuration and builds the logger
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
