package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"package-migrator/feature/packages/models"
	"package-migrator/feature/packages/schema"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func storedRow(t *testing.T, db *gorm.DB, id string) models.PackageRow {
	t.Helper()
	var row models.PackageRow
	require.NoError(t, db.Where("uuid = ?", id).Take(&row).Error)
	return row
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func samplePackage(id string) models.Package {
	return models.Package{
		models.FieldUUID:              id,
		models.FieldName:              "sdc_128",
		models.FieldVersion:           "1.0.0",
		models.FieldVCPUs:             int64(1),
		models.FieldMaxPhysicalMemory: int64(128),
		models.FieldActive:            true,
		models.FieldDescription:       "small",
		models.FieldNetworks:          []string{"n1"},
		models.FieldTraits:            map[string]any{"ssd": true},
		models.FieldCreatedAt:         time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_CreateAndExists(t *testing.T) {
	db := setupSQLite(t)
	s := New(db, schema.Default())
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	id := uuid.NewString()
	exists, err := s.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Create(ctx, samplePackage(id)))

	exists, err = s.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	row := storedRow(t, db, id)
	assert.Equal(t, "sdc_128", row.Name)
	assert.Equal(t, int64(128), *row.MaxPhysicalMemory)
	assert.Equal(t, []string{"n1"}, row.Networks)
	assert.Equal(t, true, row.Traits["ssd"])
	assert.Nil(t, row.Quota)

	err = s.Create(ctx, samplePackage(id))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStore_UpsertPreservesImmutableFields(t *testing.T) {
	db := setupSQLite(t)
	s := New(db, schema.Default())
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	id := uuid.NewString()
	require.NoError(t, s.Create(ctx, samplePackage(id)))

	changed := samplePackage(id)
	changed[models.FieldName] = "renamed"
	changed[models.FieldVCPUs] = int64(4)
	changed[models.FieldDescription] = "updated"
	changed[models.FieldActive] = false
	require.NoError(t, s.Upsert(ctx, changed))

	row := storedRow(t, db, id)
	assert.Equal(t, "sdc_128", row.Name)
	assert.Equal(t, int64(1), *row.VCPUs)
	assert.Equal(t, "updated", *row.Description)
	assert.False(t, *row.Active)

	// Upsert of an unknown uuid inserts it.
	fresh := uuid.NewString()
	require.NoError(t, s.Upsert(ctx, samplePackage(fresh)))
	exists, err := s.Exists(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_UpdateColumns(t *testing.T) {
	s := New(setupSQLite(t), schema.Default())
	cols := s.UpdateColumns()

	assert.Contains(t, cols, "is_default")
	assert.Contains(t, cols, "group_name")
	assert.Contains(t, cols, "description")
	assert.NotContains(t, cols, "uuid")
	assert.NotContains(t, cols, "name")
	assert.NotContains(t, cols, "created_at")
}

func TestStore_InvalidPackage(t *testing.T) {
	s := New(setupSQLite(t), schema.Default())
	pkg := samplePackage(uuid.NewString())
	pkg[models.FieldVCPUs] = "one"

	err := s.Create(context.Background(), pkg)
	assert.ErrorContains(t, err, "expected int64")
}

func TestStore_Verify(t *testing.T) {
	db := setupSQLite(t)
	s := New(db, schema.Default())
	ctx := context.Background()

	assert.ErrorContains(t, s.Verify(ctx, schema.Default()), "does not exist")

	require.NoError(t, db.Exec("CREATE TABLE packages (uuid TEXT PRIMARY KEY, name TEXT)").Error)
	assert.ErrorContains(t, s.Verify(ctx, schema.Default()), "missing columns")

	require.NoError(t, s.Migrate(ctx))
	assert.NoError(t, s.Verify(ctx, schema.Default()))
}

func TestStore_MySQLDuplicateKey(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, schema.Default())

	mock.ExpectExec("INSERT INTO `packages`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := s.Create(context.Background(), samplePackage(uuid.NewString()))
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MySQLFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, schema.Default())

	mock.ExpectExec("INSERT INTO `packages`").WillReturnError(errors.New("connection refused"))

	err := s.Create(context.Background(), samplePackage(uuid.NewString()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MySQLUpsert(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, schema.Default())

	mock.ExpectExec("INSERT INTO `packages` .* ON DUPLICATE KEY UPDATE .*`description`").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Upsert(context.Background(), samplePackage(uuid.NewString())))
	assert.NoError(t, mock.ExpectationsWereMet())
}
