/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/logger"
	"github.com/vistamin/starchive/internal/resultlog"
)

var resultsLimit int

// resultsCmd groups result log subcommands.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Append to and inspect the draw result log",
	Long: `The result log records individual draw results with capture timestamps,
separate from the archived task history.`,
}

var resultsAddCmd = &cobra.Command{
	Use:   "add <result>...",
	Short: "Append one or more results to the log",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, err := resultlog.Open(GetConfig().Results.File)
		if err != nil {
			HandleError("Error opening result log", err)
		}
		defer func() { _ = log.Close() }()

		for _, result := range args {
			entry, err := log.Append(strings.TrimSpace(result))
			if err != nil {
				HandleError(fmt.Sprintf("Failed to record result %q", result), err)
			}
			logger.Infof("recorded result %s", entry.ID)
			fmt.Printf("Recorded %s (%s).\n", entry.Result, entry.ID)
		}
	},
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded results, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		log, err := resultlog.Open(GetConfig().Results.File)
		if err != nil {
			HandleError("Error opening result log", err)
		}
		defer func() { _ = log.Close() }()

		entries, err := log.List(resultsLimit)
		if err != nil {
			HandleError("Failed to list results", err)
		}
		if len(entries) == 0 {
			fmt.Println("No recorded results.")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", e.RecordedAt.Format(time.RFC3339), e.ID, e.Result)
		}
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsAddCmd)
	resultsCmd.AddCommand(resultsListCmd)
	resultsListCmd.Flags().IntVarP(&resultsLimit, "limit", "n", 50, "maximum number of results to show")
}
