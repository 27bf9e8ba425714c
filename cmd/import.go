package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"package-migrator/core/config"
	"package-migrator/core/database"
	"package-migrator/core/directory"
	"package-migrator/core/metrics"
	"package-migrator/core/reconcile"
	"package-migrator/core/storage"
	"package-migrator/feature/packages/importer"
	"package-migrator/feature/packages/schema"
	"package-migrator/feature/packages/source"
	"package-migrator/feature/packages/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importFlags holds the flags of the import command.
type importFlags struct {
	ldapURL      string
	bindDN       string
	bindPassword string
	ldifPath     string
	jsonPath     string
	dryRun       bool
	overwrite    bool
	workers      int
	schemaFile   string
	report       string
}

var importOpts importFlags

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import packages from one legacy source",
	Long: `Reads packages from exactly one source (--ldap-url, --ldif or --json), validates
them against the field schema and writes them to the package store.

Existing packages are reported as skipped-duplicate unless --overwrite is set,
in which case every mutable field is replaced and immutable fields are kept.
--ldif and --json accept a local path or s3://bucket/key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logg.Sync()

		applyImportFlags(cmd, cfg, importOpts)

		sc, err := loadSchema(cfg.Import.SchemaFile)
		if err != nil {
			return err
		}

		var client storage.Client
		if needsObjectStorage(importOpts.ldifPath, importOpts.jsonPath, cfg.Import.Report) {
			if client, err = storage.NewClient(cfg.Storage); err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
		}

		loader, err := newLoader(cfg, importOpts, client, logg)
		if err != nil {
			return err
		}

		// A dry run never touches the target store, so it does not need one.
		var target importer.Target
		if !importOpts.dryRun {
			st, err := openStore(ctx, cfg, sc, logg)
			if err != nil {
				return err
			}
			target = st
			if importOpts.overwrite {
				logOverwritePlan(logg, st, sc)
			}
		}

		recorder := metrics.NewRecorder()
		im := importer.New(target, sc, logg, recorder)

		summary, runErr := im.Run(ctx, loader, importer.Options{
			DryRun:    importOpts.dryRun,
			Overwrite: importOpts.overwrite,
			Workers:   cfg.Import.Workers,
		})
		if runErr != nil && !errors.Is(runErr, importer.ErrRecordsFailed) {
			logg.Error("Import aborted, summary is incomplete",
				zap.String("source", loader.Name()),
				zap.Int("records_finished", summary.Total),
				zap.Error(runErr),
			)
			return runErr
		}

		importer.PrintSummary(cmd.OutOrStdout(), summary)
		logg.Info("Import completed",
			zap.String("source", summary.Source),
			zap.Bool("dry_run", summary.DryRun),
			zap.Int("total", summary.Total),
			zap.Int("imported", summary.Count(reconcile.Imported)),
			zap.Int("skipped_duplicate", summary.Count(reconcile.SkippedDuplicate)),
			zap.Int("skipped_invalid", summary.Count(reconcile.SkippedInvalid)),
			zap.Int("failed", summary.Count(reconcile.Failed)),
			zap.Duration("execution_time", summary.Duration()),
		)

		if cfg.Import.Report != "" {
			if err := importer.WriteReport(ctx, cfg.Import.Report, summary, client); err != nil {
				return err
			}
			logg.Info("Report saved", zap.String("location", cfg.Import.Report))
		}

		if err := metrics.Push(ctx, cfg.Metrics, recorder, summary.Source); err != nil {
			logg.Warn("Metrics push failed", zap.Error(err))
		}

		return runErr
	},
}

// applyImportFlags lets explicitly set flags override the configuration.
func applyImportFlags(cmd *cobra.Command, cfg *config.Config, f importFlags) {
	flags := cmd.Flags()
	if flags.Changed("ldap-url") {
		cfg.Directory.URL = f.ldapURL
	}
	if flags.Changed("bind-dn") {
		cfg.Directory.BindDN = f.bindDN
	}
	if flags.Changed("bind-password") {
		cfg.Directory.BindPassword = f.bindPassword
	}
	if flags.Changed("workers") {
		cfg.Import.Workers = f.workers
	}
	if flags.Changed("schema") {
		cfg.Import.SchemaFile = f.schemaFile
	}
	if flags.Changed("report") {
		cfg.Import.Report = f.report
	}
}

// newLoader selects the single configured source.
func newLoader(cfg *config.Config, f importFlags, client storage.Client, logg *zap.Logger) (source.Loader, error) {
	switch {
	case f.ldifPath != "":
		return source.NewLDIFLoader(f.ldifPath, client, logg), nil
	case f.jsonPath != "":
		return source.NewJSONLinesLoader(f.jsonPath, client, logg), nil
	case f.ldapURL != "":
		if err := cfg.Directory.Validate(); err != nil {
			return nil, err
		}
		return source.NewDirectoryLoader(cfg.Directory, directory.Dial, logg), nil
	default:
		return nil, errors.New("one of --ldap-url, --ldif or --json is required")
	}
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.Default(), nil
	}
	return schema.Load(path)
}

func needsObjectStorage(locations ...string) bool {
	for _, loc := range locations {
		if strings.HasPrefix(loc, storage.Scheme) {
			return true
		}
	}
	return false
}

// openStore connects to the target and prepares the packages table.
func openStore(ctx context.Context, cfg *config.Config, sc *schema.Schema, logg *zap.Logger) (*store.Store, error) {
	dbCfg := cfg.Database
	if dbCfg.MaxOpenConns <= 0 && cfg.Import.Workers > 0 {
		dbCfg.MaxOpenConns = cfg.Import.Workers * 2
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	st := store.New(db, sc)
	if dbCfg.AutoMigrate {
		logg.Info("Migrating packages table")
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err := st.Verify(ctx, sc); err != nil {
		return nil, fmt.Errorf("%w (set database.auto_migrate to create it)", err)
	}
	return st, nil
}

// logOverwritePlan reports which columns an overwrite replaces and which
// fields it leaves untouched.
func logOverwritePlan(logg *zap.Logger, st *store.Store, sc *schema.Schema) {
	logg.Info("Overwrite enabled",
		zap.Strings("replaced_columns", st.UpdateColumns()),
		zap.Strings("preserved_fields", sc.Immutable()),
	)
}

func init() {
	RootCmd.AddCommand(importCmd)

	flags := importCmd.Flags()
	flags.StringVar(&importOpts.ldapURL, "ldap-url", "", "directory service URL, e.g. ldaps://ufds.example.com:636")
	flags.StringVar(&importOpts.bindDN, "bind-dn", "", "directory bind DN (required with --ldap-url)")
	flags.StringVar(&importOpts.bindPassword, "bind-password", "", "directory bind password (required with --ldap-url)")
	flags.StringVar(&importOpts.ldifPath, "ldif", "", "LDIF dump path or s3://bucket/key")
	flags.StringVar(&importOpts.jsonPath, "json", "", "JSON-lines export path or s3://bucket/key")
	flags.BoolVar(&importOpts.dryRun, "dry-run", false, "validate only, never write to the store")
	flags.BoolVar(&importOpts.overwrite, "overwrite", false, "replace existing packages, keeping immutable fields")
	flags.IntVar(&importOpts.workers, "workers", reconcile.DefaultWorkers, "concurrent store writes")
	flags.StringVar(&importOpts.schemaFile, "schema", "", "field schema YAML (default built-in)")
	flags.StringVar(&importOpts.report, "report", "", "write the JSON run report to a path or s3://bucket/key")

	importCmd.MarkFlagsMutuallyExclusive("ldap-url", "ldif", "json")
	importCmd.MarkFlagsOneRequired("ldap-url", "ldif", "json")
}
