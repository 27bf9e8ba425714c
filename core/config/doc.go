// Package config provides configuration management for the package migrator.
//
// It utilizes Viper for loading configuration from a .env file, environment
// variables and a YAML config file (default /etc/package-migrator/config.yaml).
// Command-line flags are applied on top by the cmd package.
//
// # Configuration Structure
//
// The Config struct is the single configuration value of a run, built once and
// passed by reference. It is divided into subsections:
//   - Log: logging level and format
//   - Database: target package store connection
//   - Storage: S3/MinIO credentials for s3:// sources and reports
//   - Directory: legacy directory URL, bind credentials, search base and filter
//   - Import: worker count, schema file, report location
//   - Metrics: pushgateway settings
//
// Every key can be set from the environment as SECTION_KEY, e.g.
// DIRECTORY_BIND_DN or IMPORT_WORKERS.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", "")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Import.Workers)
package config
