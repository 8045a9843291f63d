package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/closurelabs/ecoscan/internal/domain"
)

type catalogEntry struct {
	Barcode   string             `gorm:"size:20;primaryKey"`
	Data      domain.ProductData `gorm:"type:text;serializer:json"`
	UpdatedAt time.Time
}

func (catalogEntry) TableName() string { return "catalog_entries" }

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) Load(ctx context.Context) (map[string]domain.ProductData, error) {
	var entries []catalogEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	items := make(map[string]domain.ProductData, len(entries))
	for _, e := range entries {
		items[e.Barcode] = e.Data
	}
	return items, nil
}

func (r *CatalogRepo) Upsert(ctx context.Context, data domain.ProductData) error {
	entry := catalogEntry{Barcode: data.Code, Data: data}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}
