package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the vault with its git remote",
	Long: `Pull remote changes into the fs vault and push local commits.
Only versioned fs vaults can be synchronized.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd)
		if err != nil {
			fatal("Failed to load project", err)
		}

		fmt.Println("Syncing...")
		if err := questvault.Sync(context.Background(), p.uri, p.opts...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Sync failed: %v\n", err)
			fmt.Println("Tip: Ensure a remote is configured ('git remote add origin <url>') and you are online.")
			os.Exit(1)
		}

		fmt.Println("Sync completed successfully.")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
