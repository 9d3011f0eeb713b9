/*
Copyright © 2025 vistamin
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Config   string         `mapstructure:"config"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Settings SettingsConfig `mapstructure:"settings" validate:"required"`
	Results  ResultsConfig  `mapstructure:"results" validate:"required"`
	Log      LogConfig      `mapstructure:"log"`
}

// HistoryConfig holds the archive store settings.
type HistoryConfig struct {
	// RootDir is the storage root; the index file and shard directories
	// live underneath it.
	RootDir string `mapstructure:"rootDir" validate:"required"`
	// IndexFile is the index file name relative to RootDir.
	IndexFile string `mapstructure:"indexFile" validate:"required"`
	// Retention caps the index at the N most recently inserted/updated
	// entries. Shard files evicted from the index are never reaped.
	Retention int `mapstructure:"retention" validate:"required,min=1"`
}

// SettingsConfig holds the application settings store configuration.
type SettingsConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// ResultsConfig holds the append-only result log configuration.
type ResultsConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// LogConfig holds the operational debug log configuration.
type LogConfig struct {
	File string `mapstructure:"file"`
}
