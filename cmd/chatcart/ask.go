package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/chatcart/backend/internal/app"
	"github.com/spf13/cobra"
)

var askPretty bool

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Run one message through the pipeline and print the JSON answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if cfg.Server.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Server.RequestTimeout)
			defer cancel()
		}

		application, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		response, err := application.Chat.Run(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetEscapeHTML(false)
		if askPretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(response)
	},
}

func init() {
	askCmd.Flags().BoolVar(&askPretty, "pretty", false, "Indent the JSON output")
	rootCmd.AddCommand(askCmd)
}
