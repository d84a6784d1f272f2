package reportparse

import (
	"os"
	"path/filepath"
)

// defaultMetadataScanLines bounds the leading-line window searched for
// student identity fields when no engine config overrides it.
const defaultMetadataScanLines = 20

// Config holds all configuration for the report analysis engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.reportparse/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "reportparse". The file will be <DBName>.db inside the
	// storage directory (~/.reportparse/ or working dir).
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.reportparse/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// TopN is the cutoff for the ranked subject list.
	TopN int `json:"top_n" yaml:"top_n"`

	// MetadataScanLines bounds how many leading text lines are searched
	// for student details.
	MetadataScanLines int `json:"metadata_scan_lines" yaml:"metadata_scan_lines"`
}

// DefaultConfig returns a Config with sensible defaults.
// Database is stored in ~/.reportparse/reportparse.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:            "reportparse",
		StorageDir:        "home",
		TopN:              5,
		MetadataScanLines: defaultMetadataScanLines,
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "reportparse"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".reportparse")
		return filepath.Join(dir, name+".db")
	}
}
