package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"package-migrator/core/database"
	"package-migrator/core/directory"
	"package-migrator/core/logger"
	"package-migrator/core/metrics"
	"package-migrator/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFile is the config file read when none is given explicitly.
var DefaultFile = "/etc/package-migrator/config.yaml"

// Config holds all configuration for the migrator.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the target package store.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage holding dumps and reports.
	Storage storage.Config `mapstructure:"storage"`
	// Directory holds configuration for the legacy directory service.
	Directory directory.Config `mapstructure:"directory"`
	// Import holds settings of the reconciliation run.
	Import ImportConfig `mapstructure:"import"`
	// Metrics holds configuration for run metrics.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// ImportConfig holds settings of the reconciliation run.
type ImportConfig struct {
	// Workers bounds concurrent writes to the target.
	Workers int `mapstructure:"workers" default:"8"`
	// SchemaFile is a YAML field schema. Empty selects the built-in schema.
	SchemaFile string `mapstructure:"schema_file" default:""`
	// Report is a path or s3://bucket/key receiving the JSON run report.
	Report string `mapstructure:"report" default:""`
}

// LoadConfig loads configuration from the .env file in path, environment
// variables and a YAML config file. When file is empty DefaultFile is used
// and may be absent; an explicitly given file must exist.
func LoadConfig(path, file string) (*Config, error) {
	// Ignore error if .env doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DATABASE_HOST -> database.host)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}

	if _, err := os.Stat(file); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", file, err)
		}
	} else {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
