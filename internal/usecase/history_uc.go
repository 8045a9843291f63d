package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/closurelabs/ecoscan/internal/domain"
)

// HistoryUC is the scan history ledger: newest-first, at most one record per
// barcode, every mutation flushed to the durable store before returning.
type HistoryUC struct {
	mu      sync.Mutex
	store   domain.HistoryStore
	records []domain.ProductRecord
}

// NewHistoryUC loads the persisted ledger. A corrupt or unreadable store
// degrades to an empty ledger.
func NewHistoryUC(ctx context.Context, store domain.HistoryStore) *HistoryUC {
	uc := &HistoryUC{store: store}
	records, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("history load failed, starting empty")
		records = nil
	}
	uc.records = records
	return uc
}

func (uc *HistoryUC) Records() []domain.ProductRecord {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.ProductRecord, len(uc.records))
	copy(out, uc.records)
	return out
}

func (uc *HistoryUC) Len() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.records)
}

func (uc *HistoryUC) FindByBarcode(barcode string) *domain.ProductRecord {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.records {
		if uc.records[i].Barcode == barcode {
			rec := uc.records[i]
			return &rec
		}
	}
	return nil
}

// Insert adds a record at the front. A record with the same barcode already
// present makes the insert a no-op.
func (uc *HistoryUC) Insert(ctx context.Context, rec domain.ProductRecord) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.records {
		if uc.records[i].Barcode == rec.Barcode {
			return false
		}
	}
	uc.records = append([]domain.ProductRecord{rec}, uc.records...)
	uc.persist(ctx)
	return true
}

// Update replaces the record for barcode via delete-then-reinsert at the
// front, preserving the newest-first contract.
func (uc *HistoryUC) Update(ctx context.Context, barcode string, mutate func(*domain.ProductRecord)) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.records {
		if uc.records[i].Barcode != barcode {
			continue
		}
		rec := uc.records[i]
		mutate(&rec)
		rec.Barcode = barcode
		uc.records = append(uc.records[:i], uc.records[i+1:]...)
		uc.records = append([]domain.ProductRecord{rec}, uc.records...)
		uc.persist(ctx)
		return true
	}
	return false
}

func (uc *HistoryUC) Delete(ctx context.Context, id uuid.UUID) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.records {
		if uc.records[i].ID == id {
			uc.records = append(uc.records[:i], uc.records[i+1:]...)
			uc.persist(ctx)
			return true
		}
	}
	return false
}

// DeleteIndices removes the records at the given positions. Out-of-range
// indices are ignored.
func (uc *HistoryUC) DeleteIndices(ctx context.Context, indices []int) {
	if len(indices) == 0 {
		return
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(uc.records) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := uc.records[:0]
	for i := range uc.records {
		if !drop[i] {
			kept = append(kept, uc.records[i])
		}
	}
	uc.records = kept
	uc.persist(ctx)
}

// Clear empties the ledger and persists the empty state synchronously.
func (uc *HistoryUC) Clear(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.records = nil
	uc.persist(ctx)
}

// persist flushes under the held lock. Storage errors are logged and
// swallowed so the ledger keeps serving from memory.
func (uc *HistoryUC) persist(ctx context.Context) {
	if err := uc.store.Replace(ctx, uc.records); err != nil {
		log.Warn().Err(err).Int("records", len(uc.records)).Msg("history persist failed")
	}
}
