package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a vault",
	Long: `Initialize the store of the current project. For the fs adapter this creates
the vault directory and, unless --gitless is set, runs 'git init'. For the
sqlite adapter it creates the database and its schema.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd)
		if err != nil {
			fatal("Failed to load project", err)
		}

		opts := append([]questvault.Option{questvault.WithAutoInit(true)}, p.opts...)
		repo, err := questvault.Init(context.Background(), p.uri, opts...)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}
		if c, ok := repo.(io.Closer); ok {
			_ = c.Close()
		}

		fmt.Println("Initialized questvault store in", p.uri)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
