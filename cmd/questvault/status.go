package main

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the store as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx, cmd)
		defer app.Close()

		writeJSON(app.Service.State())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
