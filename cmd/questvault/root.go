package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault"
)

const defaultCollection = "careers"

var (
	verbose    bool
	adapter    string
	vaultPath  string
	gitless    bool
	collection string
)

var rootCmd = &cobra.Command{
	Use:   "questvault",
	Short: "Maintain the career, quest and achievement records of a skill tracker",
	Long: `questvault stores career and quest records in a Markdown/JSON/YAML vault or a
SQLite database, suggests career fields from free text and migrates careers
from the legacy "field" attribute to "fields".`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter (fs or sqlite)")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "path", "", "Vault directory or database file (default: project root)")
	rootCmd.PersistentFlags().BoolVar(&gitless, "gitless", false, "Disable git versioning of the fs vault")
	rootCmd.PersistentFlags().StringVarP(&collection, "collection", "c", "", "Collection to operate on (default: careers)")
}

// project is the resolved configuration of one invocation: questvault.yaml
// found above the working directory, overridden by flags.
type project struct {
	file *questvault.ProjectFile
	uri  string
	opts []questvault.Option
}

func loadProject(cmd *cobra.Command) (*project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	root, err := questvault.FindVaultRoot(wd)
	if errors.Is(err, questvault.ErrRootNotFound) {
		root = wd
	} else if err != nil {
		return nil, err
	}

	file, err := questvault.LoadProjectFile(root)
	if err != nil {
		return nil, err
	}

	p := &project{file: file, uri: file.VaultPath()}
	p.opts = append(p.opts, file.Options()...)
	p.opts = append(p.opts, questvault.WithLogger(slog.Default()))

	flags := cmd.Flags()
	if flags.Changed("path") {
		p.uri = vaultPath
	}
	if flags.Changed("adapter") {
		p.opts = append(p.opts, questvault.WithAdapter(adapter))
	}
	if flags.Changed("gitless") {
		p.opts = append(p.opts, questvault.WithVersioning(!gitless))
	}

	slog.Debug("resolved project", "root", root, "uri", p.uri)
	return p, nil
}

// collectionName returns the --collection flag, the project default, or "careers".
func (p *project) collectionName() string {
	if collection != "" {
		return collection
	}
	if p.file.Collection != "" {
		return p.file.Collection
	}
	return defaultCollection
}

// openApp opens the existing store of the current project.
func openApp(ctx context.Context, cmd *cobra.Command, extra ...questvault.Option) (*questvault.App, *project) {
	p, err := loadProject(cmd)
	if err != nil {
		fatal("Failed to load project", err)
	}

	opts := append([]questvault.Option{}, p.opts...)
	opts = append(opts, questvault.WithMustExist(true))
	opts = append(opts, extra...)

	app, err := questvault.New(ctx, p.uri, opts...)
	if err != nil {
		fatal("Failed to open vault", err)
	}
	return app, p
}
