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
	"golang.org/x/term"
)

var clearForce bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all archived tasks",
	Long: `Delete every archived task: all shard files are removed and the index
is reset to empty.

Safety features:
- Interactive confirmation (unless --force is used)
- Refuses to run without --force when stdin is not a terminal

Examples:
  starchive clear          # Clear everything (with confirmation)
  starchive clear --force  # Clear everything without confirmation`,
	Run: func(cmd *cobra.Command, args []string) {
		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		stats, err := historyStore.Stats()
		if err != nil {
			HandleError("Failed to read history stats", err)
		}
		if stats.TotalTasks == 0 {
			fmt.Println("History is already empty.")
			return
		}

		if !clearForce {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprintln(os.Stderr, "Refusing to clear history non-interactively. Re-run with --force.")
				os.Exit(1)
			}
			confirmPrompt := promptui.Prompt{
				Label:     fmt.Sprintf("Delete all %d archived tasks", stats.TotalTasks),
				IsConfirm: true,
			}
			if _, err := confirmPrompt.Run(); err != nil {
				if err == promptui.ErrAbort || err == promptui.ErrInterrupt {
					fmt.Println("Clear operation cancelled.")
					return
				}
				fmt.Fprintf(os.Stderr, "Confirmation prompt failed: %v\n", err)
				os.Exit(1)
			}
		}

		if err := historyStore.ClearAll(); err != nil {
			logger.Errorf("clear history failed: %v", err)
			HandleError("Failed to clear history", err)
		}

		logger.Infof("cleared history (%d tasks)", stats.TotalTasks)
		fmt.Printf("Cleared %d archived tasks.\n", stats.TotalTasks)
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
}
