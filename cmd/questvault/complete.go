package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var completeJSON bool

var completeCmd = &cobra.Command{
	Use:   "complete <user> <quest>",
	Short: "Credit a completed quest to a user",
	Long: `Add the quest's experience and skill hours to the user, unlock the
achievements the user now qualifies for and save the user. Completing the
same quest again changes nothing.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx, cmd)
		defer app.Close()

		res, err := app.CompleteQuest(ctx, args[0], args[1])
		if err != nil {
			fatal("Failed to complete quest", err)
		}

		if completeJSON {
			writeJSON(res)
			return
		}
		if !res.Credited {
			fmt.Printf("%s already completed %s\n", res.User, res.Quest)
		}
		fmt.Printf("%s: xp %d, level %d\n", res.User, res.XP, res.Level)
		if len(res.Unlocked) > 0 {
			fmt.Println("unlocked:", strings.Join(res.Unlocked, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "Output in JSON format")
}
