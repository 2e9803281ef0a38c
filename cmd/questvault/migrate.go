package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/questvault/pkg/migrate"
)

var (
	migrateDryRun    bool
	migrateBatchSize int
	migratePaceEvery int
	migratePaceDelay time.Duration
	migrateStrict    bool
	migrateJSON      bool
	migrateQuiet     bool
	migrateFailOnErr bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move careers from the legacy field attribute to fields",
	Long: `Migrate every record of the collection (careers by default):

  - records that already have fields are skipped,
  - a legacy "field" becomes a one-element "fields" list,
  - otherwise fields are suggested from title and description.

Records with no matching field are left untouched. Running the migration
again is safe. Records that fail are reported in the summary and the run
continues; the command exits 1 only when the collection cannot be read or
the run is interrupted, or with --fail-on-error when any record failed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// First interrupt cancels; a second one exits immediately.
		ctx := lifecycle.NewSignalContext(context.Background(), lifecycle.WithForceExit(2))
		defer ctx.Stop()

		app, p := openApp(ctx, cmd)
		defer app.Close()

		extra := []migrate.Option{migrate.WithDryRun(migrateDryRun)}
		flags := cmd.Flags()
		if flags.Changed("batch-size") {
			extra = append(extra, migrate.WithBatchSize(migrateBatchSize))
		}
		if flags.Changed("pace-every") || flags.Changed("pace-delay") {
			extra = append(extra, migrate.WithPacing(migratePaceEvery, migratePaceDelay))
		}
		if flags.Changed("strict") {
			extra = append(extra, migrate.WithStrict(migrateStrict))
		}
		if !migrateJSON && !migrateQuiet {
			extra = append(extra, migrate.WithOutcomeHandler(printOutcome))
		}

		report, err := app.Migrate(ctx, p.collectionName(), extra...)
		if report == nil {
			fatal("Migration failed", err)
		}

		if migrateJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Failed to encode report", err)
			}
		} else {
			fmt.Println(report)
		}

		if errors.Is(err, context.Canceled) {
			fatal("Migration interrupted", err)
		}
		if err != nil {
			fatal("Migration failed", err)
		}
		if migrateFailOnErr && report.Failed > 0 {
			os.Exit(1)
		}
	},
}

func printOutcome(o migrate.Outcome) {
	line := fmt.Sprintf("%-9s %s", o.Reason, o.ID)
	if len(o.Fields) > 0 {
		line += " [" + strings.Join(o.Fields, ", ") + "]"
	}
	if o.Err != nil {
		line += ": " + o.Err.Error()
	}
	fmt.Println(line)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report what would change without writing")
	migrateCmd.Flags().IntVar(&migrateBatchSize, "batch-size", migrate.DefaultBatchSize, "Records per commit group (1 to 500)")
	migrateCmd.Flags().IntVar(&migratePaceEvery, "pace-every", 0, "Pause after this many records (0 disables pacing)")
	migrateCmd.Flags().DurationVar(&migratePaceDelay, "pace-delay", 0, "Pause length between paced groups, e.g. 1s")
	migrateCmd.Flags().BoolVar(&migrateStrict, "strict", false, "Fail records whose legacy field is not a taxonomy key")
	migrateCmd.Flags().BoolVar(&migrateJSON, "json", false, "Output the report in JSON format")
	migrateCmd.Flags().BoolVarP(&migrateQuiet, "quiet", "q", false, "Print only the summary")
	migrateCmd.Flags().BoolVar(&migrateFailOnErr, "fail-on-error", false, "Exit 1 when any record failed")
}
