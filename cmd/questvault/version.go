package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/questvault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of questvault",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("questvault version %s\n", strings.TrimSpace(questvault.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
