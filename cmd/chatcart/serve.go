package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/chatcart/backend/internal/app"
	"github.com/chatcart/backend/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		if servePort != "" {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		log.Info("serving", zap.String("port", cfg.Server.Port))
		return server.Run(ctx, fmt.Sprintf(":%s", cfg.Server.Port), application.Router, cfg.Server.RequestTimeout, log)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
