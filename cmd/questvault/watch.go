package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/questvault"
	lcsource "github.com/aretw0/questvault/pkg/adapters/lifecycle"
	"github.com/aretw0/questvault/pkg/core"
)

var watchApply bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Classify careers as they are created or changed",
	Long: `Watch the fs vault and print the field migration outcome of every career that
is created or modified. With --apply the record is migrated immediately.
Stops on interrupt.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// First interrupt cancels; a second one exits immediately.
		ctx := lifecycle.NewSignalContext(context.Background(), lifecycle.WithForceExit(2))
		defer ctx.Stop()

		app, p := openApp(ctx, cmd, questvault.WithWatcherErrorHandler(func(err error) {
			slog.Error("watcher error", "error", err)
		}))
		defer app.Close()

		coll := p.collectionName()
		events, err := app.Service.Watch(ctx, coll+"/**")
		if errors.Is(err, core.ErrUnsupported) {
			fatal("Watch requires the fs adapter", err)
		}
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		src := lcsource.NewSource(events, lcsource.SkipDeletes)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		driver := app.Migrator()
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", coll)
		for ev := range src.Events() {
			e, ok := ev.(core.Event)
			if !ok {
				continue
			}
			doc, err := app.Service.GetDocument(ctx, e.ID)
			if err != nil {
				slog.Warn("failed to read changed record", "id", e.ID, "error", err)
				continue
			}

			if !watchApply {
				out, _ := driver.Plan(doc)
				fmt.Printf("%s %s: %s [%s]\n", e.Type, e.ID, out.Reason, strings.Join(out.Fields, ", "))
				continue
			}
			report, err := driver.Migrate(ctx, []core.Document{doc})
			if err != nil {
				break
			}
			for _, out := range report.Outcomes {
				printOutcome(out)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchApply, "apply", false, "Migrate changed careers instead of only reporting them")
}
