package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/closurelabs/ecoscan/internal/domain"
)

// CatalogUC is the local product catalog: a durable barcode → provider
// response map, seeded with a small built-in set and lazily grown as new
// barcodes resolve. Storage failures degrade it to in-memory only.
type CatalogUC struct {
	mu    sync.RWMutex
	store domain.CatalogStore
	items map[string]domain.ProductData
}

func NewCatalogUC(store domain.CatalogStore) *CatalogUC {
	return &CatalogUC{store: store, items: map[string]domain.ProductData{}}
}

// Initialize loads the durable catalog. An empty or unreadable store is
// replaced by the built-in seed, so the catalog is never empty afterwards.
func (uc *CatalogUC) Initialize(ctx context.Context) {
	items, err := uc.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog load failed, reseeding in memory")
		items = nil
	}
	if len(items) == 0 {
		items = seedCatalog()
		for _, d := range items {
			if err := uc.store.Upsert(ctx, d); err != nil {
				log.Warn().Err(err).Str("barcode", d.Code).Msg("catalog seed persist failed")
			}
		}
	}
	uc.mu.Lock()
	uc.items = items
	uc.mu.Unlock()
}

func (uc *CatalogUC) Lookup(barcode string) (domain.ProductData, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	d, ok := uc.items[barcode]
	return d, ok
}

func (uc *CatalogUC) Len() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.items)
}

// Upsert stores a freshly resolved provider response, write-through to the
// durable store. Persistence errors are logged and swallowed.
func (uc *CatalogUC) Upsert(ctx context.Context, data domain.ProductData) {
	if data.Code == "" {
		return
	}
	uc.mu.Lock()
	uc.items[data.Code] = data
	uc.mu.Unlock()

	if err := uc.store.Upsert(ctx, data); err != nil {
		log.Warn().Err(err).Str("barcode", data.Code).Msg("catalog persist failed")
	}
}

func seedCatalog() map[string]domain.ProductData {
	seeds := []domain.ProductData{
		{
			Code:            "0685450116442",
			Name:            "Parle-G Original Glucose Biscuits",
			Packaging:       "Plastic wrapper",
			PackagingTags:   []string{"plastic", "wrapper"},
			CarbonFootprint: "1.2kg CO2",
			EcoScoreGrade:   domain.GradeC,
		},
		{
			Code:            "8901063142125",
			Name:            "Maggi 2-Minute Noodles",
			Packaging:       "Plastic wrapper with cardboard box",
			PackagingTags:   []string{"plastic", "cardboard", "recyclable"},
			CarbonFootprint: "2.1kg CO2",
			EcoScoreGrade:   domain.GradeD,
		},
		{
			Code:            "8901052089844",
			Name:            "Britannia Marie Gold",
			Packaging:       "Plastic wrapper",
			PackagingTags:   []string{"plastic", "wrapper"},
			CarbonFootprint: "1.4kg CO2",
			EcoScoreGrade:   domain.GradeC,
		},
		{
			Code:            "0194253408079",
			Name:            "iPhone-14",
			Packaging:       "Paper Box",
			PackagingTags:   []string{"paper", "recyclable"},
			CarbonFootprint: "1.2kg CO2",
			EcoScoreGrade:   domain.GradeB,
		},
	}
	items := make(map[string]domain.ProductData, len(seeds))
	for _, s := range seeds {
		items[s.Code] = s
	}
	return items
}
