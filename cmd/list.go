/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/logger"
)

var listJSON bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived tasks, newest first",
	Long: `List the archived tasks tracked by the history index, newest first.

Each record is reconstructed from its shard file. When a shard is
missing or unreadable, a summary built from the index is shown instead
so the listing never fails on a single bad file.`,
	Run: func(cmd *cobra.Command, args []string) {
		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		records, err := historyStore.List()
		if err != nil {
			HandleError("Failed to list history", err)
		}
		logger.Infof("listed %d history records", len(records))

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(records); err != nil {
				HandleError("Failed to encode records", err)
			}
			return
		}

		if len(records) == 0 {
			fmt.Println("No archived tasks.")
			return
		}
		for _, r := range records {
			fmt.Printf("%s  %-30s  %s  (group: %s, results: %d)\n",
				r.ID, r.DisplayName(), r.Timestamp, r.Group(), r.TotalCount)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output records as JSON")
}
