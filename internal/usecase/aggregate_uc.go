package usecase

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/closurelabs/ecoscan/internal/domain"
)

// AggregateUC fans out to the nutrition, allergen and product-database
// providers for one barcode and merges their partial results. A single
// provider's failure never aborts the others: each branch swallows its own
// error and contributes nothing to the merge.
type AggregateUC struct {
	Products  domain.ProductProvider
	Nutrition domain.NutritionProvider
	Allergens domain.AllergenProvider
	Catalog   *CatalogUC
}

// Aggregate enriches the cache-seeded data (seed may be nil on a catalog
// miss) with concurrently fetched provider fields. It returns
// domain.ErrNotFound only when no source produced any field at all.
func (uc *AggregateUC) Aggregate(ctx context.Context, barcode string, seed *domain.ProductData) (*domain.ProductInfo, error) {
	var (
		nutrition *domain.NutritionData
		allergens []string
		product   *domain.ProductData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.Nutrition.Nutrition(gctx, barcode)
		if err != nil {
			log.Warn().Err(err).Str("barcode", barcode).Msg("nutrition lookup failed")
			return nil
		}
		nutrition = n
		return nil
	})
	g.Go(func() error {
		tags, err := uc.Allergens.Allergens(gctx, barcode)
		if err != nil {
			log.Warn().Err(err).Str("barcode", barcode).Msg("allergen lookup failed")
			return nil
		}
		allergens = tags
		return nil
	})
	if seed == nil && uc.Products != nil {
		g.Go(func() error {
			p, err := uc.Products.Product(gctx, barcode)
			if err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("product lookup failed")
				return nil
			}
			product = p
			return nil
		})
	}
	_ = g.Wait()

	base := domain.ProductData{Code: barcode}
	if seed != nil {
		base = *seed
	} else if product != nil {
		base = *product
		// New discovery: grow the local catalog.
		if uc.Catalog != nil && !base.Empty() {
			uc.Catalog.Upsert(ctx, base)
		}
	}

	info := merge(barcode, base, nutrition, allergens)
	if empty(info) {
		return nil, domain.ErrNotFound
	}
	return info, nil
}

// merge overlays freshly fetched nutrition-service values on the seeded
// ones: fresh wins when present and non-empty, otherwise the seed stays.
func merge(barcode string, base domain.ProductData, nutrition *domain.NutritionData, allergens []string) *domain.ProductInfo {
	info := &domain.ProductInfo{
		Barcode:            barcode,
		Name:               base.Name,
		Packaging:          base.Packaging,
		PackagingTags:      base.PackagingTags,
		EcoGrade:           base.EcoScoreGrade,
		CarbonFootprintRaw: base.CarbonFootprint,
		Allergens:          domain.NormalizeAllergens(allergens),
	}
	if nutrition == nil {
		return info
	}
	if nutrition.Name != "" {
		info.Name = nutrition.Name
	}
	if nutrition.Packaging != "" {
		info.Packaging = nutrition.Packaging
	}
	if len(nutrition.PackagingTags) > 0 {
		info.PackagingTags = nutrition.PackagingTags
	}
	if nutrition.EcoScoreGrade != "" {
		info.EcoGrade = nutrition.EcoScoreGrade
	}
	info.Ingredients = nutrition.Ingredients
	info.Quantity = nutrition.Quantity
	info.ImageURL = nutrition.ImageURL
	info.Nutrition = nutrition.Facts
	return info
}

func empty(info *domain.ProductInfo) bool {
	return info.Name == "" && info.Packaging == "" && len(info.PackagingTags) == 0 &&
		info.Nutrition == nil && len(info.Allergens) == 0 && info.Ingredients == ""
}
