package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/closurelabs/ecoscan/internal/adapters/gemini"
	"github.com/closurelabs/ecoscan/internal/adapters/openfoodfacts"
	"github.com/closurelabs/ecoscan/internal/adapters/repo/sqlite"
	"github.com/closurelabs/ecoscan/internal/config"
	"github.com/closurelabs/ecoscan/internal/domain"
	"github.com/closurelabs/ecoscan/internal/usecase"
)

// App wires the use cases to their adapters. Everything is constructed here
// once and passed down explicitly; there are no ambient singletons.
type App struct {
	DB       *gorm.DB
	Catalog  *usecase.CatalogUC
	History  *usecase.HistoryUC
	Scanner  *usecase.ScanUC
	Exporter *usecase.ExportUC
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	catalog := usecase.NewCatalogUC(sqlite.NewCatalogRepo(db))
	catalog.Initialize(ctx)
	history := usecase.NewHistoryUC(ctx, sqlite.NewHistoryRepo(db))

	off := openfoodfacts.NewClient(cfg.OpenFoodFactsURL, cfg.HTTPTimeout)

	var generator domain.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("gemini unavailable, footprint estimation disabled")
		} else {
			generator = gen
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, footprint estimation disabled")
	}

	aggregate := &usecase.AggregateUC{
		Products:  off,
		Nutrition: off,
		Allergens: off,
		Catalog:   catalog,
	}
	estimator := &usecase.EstimatorUC{Gen: generator}
	scanner := usecase.NewScanUC(catalog, aggregate, estimator, history)

	return &App{
		DB:       db,
		Catalog:  catalog,
		History:  history,
		Scanner:  scanner,
		Exporter: &usecase.ExportUC{History: history},
	}, nil
}
