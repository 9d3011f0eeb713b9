/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	Long: `Show aggregate statistics for the archived history: task count, total
draw results, and per year/month breakdowns. Statistics are computed
from the index alone, so shard files are never read.`,
	Run: func(cmd *cobra.Command, args []string) {
		historyStore, err := GetHistoryStore()
		if err != nil {
			HandleError("Error getting history store", err)
		}
		defer func() { _ = historyStore.Close() }()

		stats, err := historyStore.Stats()
		if err != nil {
			HandleError("Failed to compute history stats", err)
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				HandleError("Failed to encode stats", err)
			}
			return
		}

		fmt.Printf("Tasks:   %d\n", stats.TotalTasks)
		fmt.Printf("Results: %d\n", stats.TotalResults)
		fmt.Printf("Years:   %v\n", stats.Years)
		if len(stats.Months) > 0 {
			months := make([]string, 0, len(stats.Months))
			for m := range stats.Months {
				months = append(months, m)
			}
			sort.Strings(months)
			fmt.Println("Months:")
			for _, m := range months {
				fmt.Printf("  %s: %d\n", m, stats.Months[m])
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
}
