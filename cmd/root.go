/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vistamin/starchive/internal/logger"
	"github.com/vistamin/starchive/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "starchive",
	Short: "starchive manages a local archive of task draw history.",
	Long: `starchive is a local-first store for task draw history.
Each archived task lives in its own JSON shard under a year/month
directory tree, and a bounded index keeps the most recent entries
available for fast listing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.starchive.yaml or ./.starchive.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetIndexFilePath returns the full path to the history index file.
func GetIndexFilePath() string {
	config := GetConfig()
	return filepath.Join(config.History.RootDir, config.History.IndexFile)
}

// GetHistoryStore initializes and returns the history store using the
// unified types.AppConfig.
func GetHistoryStore() (store.HistoryStore, error) {
	s := store.NewFileHistoryStore()
	config := GetConfig()

	err := s.Initialize(map[string]string{
		"rootDir":   config.History.RootDir,
		"indexFile": config.History.IndexFile,
		"retention": fmt.Sprintf("%d", config.History.Retention),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store at %s: %w", config.History.RootDir, err)
	}
	return s, nil
}
