/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/logger"
	"github.com/vistamin/starchive/store"
)

var deleteForce bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <task_id>",
	Short: "Delete an archived task",
	Long: `Delete an archived task by its ID. The shard file is removed and the
entry is dropped from the index. A confirmation prompt is displayed
before deletion unless --force is given.

Deleting an unknown ID is a no-op.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		if err := runDelete(historyStore, args[0], deleteForce); err != nil {
			HandleError(fmt.Sprintf("Failed to delete task %s", args[0]), err)
		}
	},
}

// runDelete deletes one task after an optional confirmation. A failed lookup
// is an error, not a silent no-op; only a genuinely absent id is.
func runDelete(historyStore store.HistoryStore, taskID string, force bool) error {
	record, found, err := historyStore.Get(taskID)
	if err != nil {
		return fmt.Errorf("look up task %s: %w", taskID, err)
	}
	if !found {
		fmt.Printf("No archived task with id %s, nothing to delete.\n", taskID)
		return nil
	}

	if !force {
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete task '%s' (ID: %s)", record.DisplayName(), taskID),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			if err == promptui.ErrAbort || err == promptui.ErrInterrupt {
				fmt.Println("Deletion cancelled.")
				return nil
			}
			return fmt.Errorf("confirmation prompt: %w", err)
		}
	}

	if err := historyStore.Delete(taskID); err != nil {
		// The index entry is already gone at this point. Removing the
		// shard file failed, which only leaves an orphan behind.
		logger.Errorf("delete %s left an orphaned shard: %v", taskID, err)
		fmt.Fprintf(os.Stderr, "Task %s removed from the index, but its file could not be deleted: %v\n", taskID, err)
		return nil
	}

	logger.Infof("deleted task %s", taskID)
	fmt.Printf("Task %s deleted.\n", taskID)
	return nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}
