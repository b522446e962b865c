package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/fiducials/internal/app"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive editor window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, app.Options{
			ScenePath: scenePath,
			Config:    cfg,
			Logger:    newLogger(cfg),
		})
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
