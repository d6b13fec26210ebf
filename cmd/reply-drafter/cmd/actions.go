package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the reply actions in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, label := range draft.Labels() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, label)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
