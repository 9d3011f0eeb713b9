/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/logger"
	"github.com/vistamin/starchive/models"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive [file]",
	Short: "Archive a task record into history",
	Long: `Archive a task record into the history store.

The record is read as JSON from the given file, or from stdin when no
file is provided. It must carry at least an id and an RFC 3339 timestamp.
Unknown fields are preserved verbatim in the stored shard.

Re-archiving an existing id updates the stored record in place without
changing its position in the index.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, source, err := readRecordInput(args)
		if err != nil {
			HandleError("Could not read task record", err)
		}
		logger.SetLastInput(string(data))

		var record models.TaskRecord
		if err := json.Unmarshal(data, &record); err != nil {
			HandleError(fmt.Sprintf("Invalid task record JSON from %s", source), err)
		}

		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		if err := historyStore.Archive(record); err != nil {
			logger.Errorf("archive %s failed: %v", record.ID, err)
			HandleError(fmt.Sprintf("Failed to archive task %s", record.ID), err)
		}

		logger.Infof("archived task %s (%s)", record.ID, record.DisplayName())
		fmt.Printf("Archived task %s (%s).\n", record.ID, record.DisplayName())
	},
}

// readRecordInput reads the raw record JSON from the file argument or stdin.
func readRecordInput(args []string) ([]byte, string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, args[0], err
		}
		return data, args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "stdin", err
	}
	return data, "stdin", nil
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
