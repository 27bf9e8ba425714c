package cmd

import (
	"fmt"

	"package-migrator/core/database"
	"package-migrator/feature/packages/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var schemaFileFlag string

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the package field schema",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// schemaShowCmd prints the effective schema document.
var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective field schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := effectiveSchemaFile(cmd)
		if err != nil {
			return err
		}
		sc, err := loadSchema(path)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(sc)
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// schemaCheckCmd verifies the target table against the schema.
var schemaCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the packages table has a column for every schema field",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if cmd.Flags().Changed("schema") {
			cfg.Import.SchemaFile = schemaFileFlag
		}
		sc, err := loadSchema(cfg.Import.SchemaFile)
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		logg.Info("Checking packages table", zap.String("driver", db.Dialector.Name()))
		if err := store.New(db, sc).Verify(cmd.Context(), sc); err != nil {
			return err
		}

		logg.Info("Packages table matches the schema", zap.Int("fields", len(sc.Fields)))
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

// effectiveSchemaFile returns --schema when given, otherwise import.schema_file.
func effectiveSchemaFile(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("schema") {
		return schemaFileFlag, nil
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Import.SchemaFile, nil
}

func init() {
	RootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaShowCmd, schemaCheckCmd)
	schemaCmd.PersistentFlags().StringVar(&schemaFileFlag, "schema", "", "field schema YAML (default built-in)")
}
