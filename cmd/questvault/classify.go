package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault/pkg/classifier"
	"github.com/aretw0/questvault/pkg/taxonomy"
)

var (
	classifyExplain bool
	classifyJSON    bool
	taxonomyFile    string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title> [description]",
	Short: "Suggest career fields for a title and description",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		title, description := args[0], ""
		if len(args) > 1 {
			description = args[1]
		}

		c := classifier.New(loadTaxonomy(cmd))

		if classifyExplain {
			matches := c.Matches(title, description)
			if classifyJSON {
				writeJSON(matches)
				return
			}
			for i, m := range matches {
				marker := " "
				if i < classifier.MaxFields {
					marker = "*"
				}
				fmt.Printf("%s %-28s %d  %s\n", marker, m.Key, m.Count, strings.Join(m.Keywords, ", "))
			}
			return
		}

		keys := c.Classify(title, description)
		if classifyJSON {
			writeJSON(keys)
			return
		}
		for _, k := range keys {
			fmt.Println(k)
		}
	},
}

// loadTaxonomy returns the taxonomy named by --taxonomy or questvault.yaml,
// or nil for the built-in one.
func loadTaxonomy(cmd *cobra.Command) *taxonomy.Taxonomy {
	path := taxonomyFile
	if path == "" {
		p, err := loadProject(cmd)
		if err != nil {
			fatal("Failed to load project", err)
		}
		path = p.file.TaxonomyPath()
	}
	if path == "" {
		return nil
	}
	t, err := taxonomy.Load(path)
	if err != nil {
		fatal("Failed to load taxonomy", err)
	}
	return t
}

func writeJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Failed to encode JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyExplain, "explain", false, "Show every matching category with its keyword count")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output in JSON format")
	classifyCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "", "Taxonomy file overriding the built-in table")
}
