package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault/pkg/core"
)

var (
	listJSON    bool
	filterField string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records of a collection",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, p := openApp(ctx, cmd)
		defer app.Close()

		docs, err := app.Service.ListDocuments(ctx, p.collectionName())
		if err != nil {
			fatal("Failed to list records", err)
		}

		var filtered []core.Document
		for _, doc := range docs {
			if filterField != "" && !slices.Contains(recordFields(doc), filterField) {
				continue
			}
			filtered = append(filtered, doc)
		}

		if listJSON {
			writeJSON(filtered)
			return
		}

		for _, doc := range filtered {
			line := doc.ID
			if t, ok := doc.Metadata["title"].(string); ok {
				line += " - " + t
			}
			if fields := recordFields(doc); len(fields) > 0 {
				line += " [" + strings.Join(fields, ", ") + "]"
			}
			fmt.Println(line)
		}
	},
}

// recordFields returns the fields list of a record, or its legacy field.
func recordFields(doc core.Document) []string {
	var out []string
	switch v := doc.Metadata["fields"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	}
	if len(out) == 0 {
		if s, ok := doc.Metadata["field"].(string); ok && s != "" {
			out = []string{s}
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterField, "field", "", "Only list records in this field")
}
