package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/closurelabs/ecoscan/internal/domain"
)

type HistoryRepo struct{ db *gorm.DB }

func NewHistoryRepo(db *gorm.DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	var list []domain.ProductRecord
	if err := r.db.WithContext(ctx).Order("position asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Replace persists the whole ledger in one transaction, preserving the
// caller's ordering via the position column.
func (r *HistoryRepo) Replace(ctx context.Context, records []domain.ProductRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.ProductRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]domain.ProductRecord, len(records))
		copy(rows, records)
		for i := range rows {
			rows[i].Position = i
		}
		return tx.Create(&rows).Error
	})
}
