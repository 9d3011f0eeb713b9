package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vistamin/starchive/internal/logger"
	"github.com/vistamin/starchive/types"
	"gopkg.in/yaml.v3"
)

const (
	configName = ".starchive"
	envPrefix  = "STARCHIVE"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the
	// config file, so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g., STARCHIVE_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")        // ./.starchive.yaml
		viper.AddConfigPath(home)       // $HOME/.starchive.yaml
		viper.SetConfigName(configName) // Looking for a file named ".starchive"
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				// Config file not found by search paths, which is fine.
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	setConfigDefaults()

	// After all sources are configured, unmarshal into GlobalAppConfig
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// A config file may exist but be missing these nested keys.
	if GlobalAppConfig.History.RootDir == "" {
		GlobalAppConfig.History.RootDir = viper.GetString("history.rootDir")
	}
	if GlobalAppConfig.History.IndexFile == "" {
		GlobalAppConfig.History.IndexFile = viper.GetString("history.indexFile")
	}
	if GlobalAppConfig.Log.File == "" {
		GlobalAppConfig.Log.File = viper.GetString("log.file")
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}

	logger.SetBasePath(GlobalAppConfig.History.RootDir)
	if err := logger.Init(GlobalAppConfig.Log.File, GlobalAppConfig.Verbose); err != nil {
		// The debug log is best effort; commands still work without it.
		fmt.Fprintf(os.Stderr, "Warning: could not open debug log: %v\n", err)
	}
}

func setConfigDefaults() {
	viper.SetDefault("history.rootDir", "coredata")
	viper.SetDefault("history.indexFile", "history.json")
	viper.SetDefault("history.retention", 100)
	viper.SetDefault("settings.file", "coredata/settings.json")
	viper.SetDefault("results.file", "coredata/results.db")
	viper.SetDefault("log.file", "logs/starchive.log")
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and bootstrap starchive configuration",
}

// configInitCmd writes a starter config file with the default values.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .starchive.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configName + ".yaml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}

		defaults := map[string]any{
			"history": map[string]any{
				"rootDir":   "coredata",
				"indexFile": "history.json",
				"retention": 100,
			},
			"settings": map[string]any{"file": "coredata/settings.json"},
			"results":  map[string]any{"file": "coredata/results.db"},
			"log":      map[string]any{"file": "logs/starchive.log"},
		}
		data, err := yaml.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		config := GetConfig()
		fmt.Printf("history.rootDir:   %s\n", config.History.RootDir)
		fmt.Printf("history.indexFile: %s\n", config.History.IndexFile)
		fmt.Printf("history.retention: %d\n", config.History.Retention)
		fmt.Printf("settings.file:     %s\n", config.Settings.File)
		fmt.Printf("results.file:      %s\n", config.Results.File)
		fmt.Printf("log.file:          %s\n", config.Log.File)
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("config file:       %s\n", filepath.Clean(used))
		}
	},
}
