package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault/pkg/taxonomy"
)

var (
	taxonomyJSON   bool
	taxonomyExport bool
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the active career field taxonomy",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := loadTaxonomy(cmd)
		if t == nil {
			t = taxonomy.Default()
		}

		if taxonomyExport {
			ext := ".yaml"
			if taxonomyJSON {
				ext = ".json"
			}
			data, err := taxonomy.Marshal(t, ext)
			if err != nil {
				fatal("Failed to encode taxonomy", err)
			}
			_, _ = os.Stdout.Write(data)
			return
		}

		if taxonomyJSON {
			writeJSON(t.Definitions())
			return
		}
		for _, d := range t.Definitions() {
			fmt.Printf("%-28s %s (%s)\n", d.Key, d.Name, strings.Join(d.Keywords, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Output in JSON format")
	taxonomyCmd.Flags().BoolVar(&taxonomyExport, "export", false, "Output a file usable as a taxonomy override")
	taxonomyCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "", "Taxonomy file overriding the built-in table")
}
