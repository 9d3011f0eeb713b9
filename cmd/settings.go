/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vistamin/starchive/internal/settings"
)

// settingsCmd groups application settings subcommands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write application settings",
	Long: `Read and write the application settings file. Missing settings fall
back to built-in defaults; unknown keys are kept as-is.`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all settings when no key is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := settings.NewStore(GetConfig().Settings.File)

		if len(args) == 1 {
			value, found, err := s.Get(args[0])
			if err != nil {
				HandleError("Failed to read settings", err)
			}
			if !found {
				fmt.Fprintf(os.Stderr, "No setting named %q.\n", args[0])
				os.Exit(1)
			}
			printSettingValue(args[0], value)
			return
		}

		values, err := s.Load()
		if err != nil {
			HandleError("Failed to read settings", err)
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			printSettingValue(k, values[k])
		}
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting (value is parsed as JSON, else kept as a string)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := settings.NewStore(GetConfig().Settings.File)

		// "true", "42", or "{"a":1}" become typed values; anything that
		// fails to parse is stored as a plain string.
		var value any
		if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
			value = args[1]
		}

		if err := s.Set(args[0], value); err != nil {
			HandleError("Failed to update settings", err)
		}
		fmt.Printf("Set %s.\n", args[0])
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.NewStore(GetConfig().Settings.File).Path())
	},
}

var settingsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the settings file and print changes until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings.NewStore(GetConfig().Settings.File)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)...\n", s.Path())
		err := s.Watch(ctx, func(values map[string]any) {
			data, err := json.Marshal(values)
			if err != nil {
				LogError("encode settings snapshot", err)
				return
			}
			fmt.Printf("settings changed: %s\n", data)
		})
		if err != nil {
			return err
		}

		// Watch returns after starting its goroutine; block until interrupted.
		<-ctx.Done()
		return nil
	},
}

func printSettingValue(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		fmt.Printf("%s = %v\n", key, value)
		return
	}
	fmt.Printf("%s = %s\n", key, data)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsWatchCmd)
}
