/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved storage paths",
	Run: func(cmd *cobra.Command, args []string) {
		config := GetConfig()
		fmt.Printf("storage root: %s\n", config.History.RootDir)
		fmt.Printf("index file:   %s\n", GetIndexFilePath())
		fmt.Printf("history dir:  %s\n", filepath.Join(config.History.RootDir, "history"))
		fmt.Printf("settings:     %s\n", config.Settings.File)
		fmt.Printf("result log:   %s\n", config.Results.File)
		fmt.Printf("debug log:    %s\n", config.Log.File)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
