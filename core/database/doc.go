// Package database opens the relational package store and inspects its schema.
//
// Connect wraps GORM for MySQL (production) and SQLite (local runs and tests).
// Error translation is enabled so unique-key violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the importer verify that an existing
// packages table carries every column the schema document declares before any
// record is written.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "packages", columns)
package database
