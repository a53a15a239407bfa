// Package testutil provides the in-memory database and fixtures the core
// packages test against.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parts-service/internal/model"
	"parts-service/pkg/database"
)

// OpenDB returns a migrated in-memory sqlite database for one test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh :memory: database exists per connection; pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// Create inserts a fixture row and fails the test on error.
func Create(t *testing.T, db *gorm.DB, rec interface{}) {
	t.Helper()
	require.NoError(t, db.Create(rec).Error)
}

// Part builds a part fixture with sane defaults: base price 100, ten in
// stock, available.
func Part(number, manufacturer string) model.Part {
	return model.Part{
		PartNumber:    number,
		Manufacturer:  manufacturer,
		Name:          number,
		BasePrice:     decimal.NewFromInt(100),
		StockQuantity: 10,
		IsAvailable:   true,
	}
}

// Brand builds a car brand fixture.
func Brand(name string) model.CarBrand {
	return model.CarBrand{Name: name}
}

// CarModel builds a car model fixture.
func CarModel(brandID uint, name string) model.CarModel {
	return model.CarModel{CarBrandID: brandID, Name: name}
}

// Engine builds a car engine fixture.
func Engine(modelID uint, name string) model.CarEngine {
	return model.CarEngine{CarModelID: modelID, Name: name}
}

// IntPtr and UintPtr exist because fixtures need addresses of literals.
func IntPtr(v int) *int { return &v }

func UintPtr(v uint) *uint { return &v }
