/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/files"
)

// filesCmd groups raw JSON file subcommands. These operate on paths
// relative to the storage root and never escape it.
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Low-level JSON file access under the storage root",
}

func filesService() *files.Service {
	return files.NewService(afero.NewOsFs(), GetConfig().History.RootDir)
}

var filesSaveCmd = &cobra.Command{
	Use:   "save <relative_path>",
	Short: "Save JSON from stdin to a file under the storage root",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			HandleError("Could not read stdin", err)
		}
		if err := filesService().SaveJSON(args[0], data); err != nil {
			HandleError(fmt.Sprintf("Failed to save %s", args[0]), err)
		}
		fmt.Printf("Saved %s (%d bytes).\n", args[0], len(data))
	},
}

var filesLoadCmd = &cobra.Command{
	Use:   "load <relative_path>",
	Short: "Print a stored JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, found, err := filesService().Load(args[0])
		if err != nil {
			HandleError(fmt.Sprintf("Failed to load %s", args[0]), err)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "No such file: %s\n", args[0])
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(data)
	},
}

var filesRmCmd = &cobra.Command{
	Use:   "rm <relative_path>",
	Short: "Delete a stored file (no-op when missing)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := filesService().Delete(args[0]); err != nil {
			HandleError(fmt.Sprintf("Failed to delete %s", args[0]), err)
		}
		fmt.Printf("Deleted %s.\n", args[0])
	},
}

var filesStatCmd = &cobra.Command{
	Use:   "stat <relative_path>",
	Short: "Show existence and size of a stored file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := filesService()
		exists, err := svc.Exists(args[0])
		if err != nil {
			HandleError(fmt.Sprintf("Failed to stat %s", args[0]), err)
		}
		size, err := svc.Size(args[0])
		if err != nil {
			HandleError(fmt.Sprintf("Failed to stat %s", args[0]), err)
		}
		fmt.Printf("exists: %v\nsize:   %d\n", exists, size)
	},
}

var filesLsCmd = &cobra.Command{
	Use:   "ls [relative_dir]",
	Short: "List files in a directory under the storage root",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		names, err := filesService().ListDir(dir)
		if err != nil {
			HandleError(fmt.Sprintf("Failed to list %s", dir), err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesSaveCmd)
	filesCmd.AddCommand(filesLoadCmd)
	filesCmd.AddCommand(filesRmCmd)
	filesCmd.AddCommand(filesStatCmd)
	filesCmd.AddCommand(filesLsCmd)
}
