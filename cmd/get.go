/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <task_id>",
	Short: "Print a single archived task as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		record, found, err := historyStore.Get(args[0])
		if err != nil {
			HandleError(fmt.Sprintf("Failed to read task %s", args[0]), err)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "No archived task with id %s.\n", args[0])
			os.Exit(1)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			HandleError("Failed to encode record", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
