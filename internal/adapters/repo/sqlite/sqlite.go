package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/closurelabs/ecoscan/internal/domain"
)

// Open opens (or creates) the on-device database and migrates the history
// and catalog tables.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.ProductRecord{}, &catalogEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
