package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var seedRoot string

var seedCmd = &cobra.Command{
	Use:   "seed <glob>",
	Short: "Import records from JSON, YAML or CSV files",
	Long: `Import every seed file matching the glob (doublestar syntax, e.g. "seeds/**/*.csv")
into a collection. Record IDs come from the "id" column, else from the title.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, p := openApp(ctx, cmd)
		defer app.Close()

		root := seedRoot
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			root = wd
		}
		root, err := filepath.Abs(root)
		if err != nil {
			fatal("Invalid seed root", err)
		}

		res, err := app.Seed(ctx, root, filepath.ToSlash(args[0]), p.collectionName())
		if err != nil {
			fatal("Seed failed", err)
		}

		for _, f := range res.Files {
			fmt.Println("read", f)
		}
		fmt.Printf("Imported %d records into %s\n", res.Records, p.collectionName())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedRoot, "root", "", "Directory the glob is relative to (default: current directory)")
}
