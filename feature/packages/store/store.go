package store

import (
	"context"
	"errors"
	"fmt"

	"package-migrator/core/database"
	"package-migrator/feature/packages/models"
	"package-migrator/feature/packages/schema"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyExists is returned by Create when a package with the same uuid
// is already stored.
var ErrAlreadyExists = errors.New("package already exists")

// Store persists packages through GORM.
type Store struct {
	db            *gorm.DB
	updateColumns []string
}

// New creates a store. The mutable fields of s decide which columns an
// overwrite may change.
func New(db *gorm.DB, s *schema.Schema) *Store {
	var columns []string
	for _, field := range s.Mutable() {
		if models.IsPersisted(field) {
			columns = append(columns, models.ColumnFor(field))
		}
	}
	return &Store{db: db, updateColumns: columns}
}

// UpdateColumns returns the columns an overwrite replaces.
func (s *Store) UpdateColumns() []string {
	return append([]string(nil), s.updateColumns...)
}

// Create inserts pkg. A uuid conflict yields ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, pkg models.Package) error {
	row, err := models.ToRow(pkg)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, row.UUID)
	}
	if err != nil {
		return fmt.Errorf("failed to create package %s: %w", row.UUID, err)
	}
	return nil
}

// Upsert inserts pkg or, on a uuid conflict, replaces its mutable columns.
func (s *Store) Upsert(ctx context.Context, pkg models.Package) error {
	row, err := models.ToRow(pkg)
	if err != nil {
		return err
	}

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "uuid"}}}
	if len(s.updateColumns) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(s.updateColumns)
	}

	if err := s.db.WithContext(ctx).Clauses(conflict).Create(row).Error; err != nil {
		return fmt.Errorf("failed to upsert package %s: %w", row.UUID, err)
	}
	return nil
}

// Exists reports whether a package with uuid is stored.
func (s *Store) Exists(ctx context.Context, uuid string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PackageRow{}).Where("uuid = ?", uuid).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up package %s: %w", uuid, err)
	}
	return count > 0, nil
}

// Migrate creates the packages table or adds missing columns and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.PackageRow{}); err != nil {
		return fmt.Errorf("failed to migrate packages table: %w", err)
	}
	return nil
}

// Verify checks that the packages table has a column for every persisted
// schema field.
func (s *Store) Verify(ctx context.Context, sc *schema.Schema) error {
	var want []string
	for _, field := range sc.Names() {
		if models.IsPersisted(field) {
			want = append(want, models.ColumnFor(field))
		}
	}

	missing, err := database.MissingColumns(s.db.WithContext(ctx), models.PackageRow{}.TableName(), want)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("packages table is missing columns: %v", missing)
	}
	return nil
}
