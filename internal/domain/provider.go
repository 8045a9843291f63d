package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrEstimation = errors.New("carbon estimation failed")
	ErrStaleScan  = errors.New("stale scan discarded")
)

// ProductData is the product-database provider response as persisted in the
// local catalog. Absent fields stay empty, never nil-dereference.
type ProductData struct {
	Code            string   `json:"code"`
	Name            string   `json:"name,omitempty"`
	Packaging       string   `json:"packaging,omitempty"`
	PackagingTags   []string `json:"packaging_tags,omitempty"`
	CarbonFootprint string   `json:"carbon_footprint,omitempty"`
	EcoScore        string   `json:"eco_score,omitempty"`
	EcoScoreGrade   EcoGrade `json:"eco_score_grade,omitempty"`
}

func (d ProductData) Empty() bool {
	return d.Name == "" && d.Packaging == "" && len(d.PackagingTags) == 0 &&
		d.CarbonFootprint == "" && d.EcoScoreGrade == ""
}

// NutritionData is a fresh nutrition-service response.
type NutritionData struct {
	Name          string
	Ingredients   string
	Quantity      string
	Packaging     string
	PackagingTags []string
	ImageURL      string
	EcoScoreGrade EcoGrade
	Facts         *NutritionInfo
}

// ProductInfo is the merged result of one aggregation pass, ready for
// carbon estimation. No persistence happens at this stage.
type ProductInfo struct {
	Barcode            string
	Name               string
	Packaging          string
	PackagingTags      []string
	EcoGrade           EcoGrade
	CarbonFootprintRaw string
	Ingredients        string
	Quantity           string
	ImageURL           string
	Nutrition          *NutritionInfo
	Allergens          []string
}

type ProductProvider interface {
	Product(ctx context.Context, barcode string) (*ProductData, error)
}

type NutritionProvider interface {
	Nutrition(ctx context.Context, barcode string) (*NutritionData, error)
}

type AllergenProvider interface {
	Allergens(ctx context.Context, barcode string) ([]string, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type HistoryStore interface {
	Load(ctx context.Context) ([]ProductRecord, error)
	Replace(ctx context.Context, records []ProductRecord) error
}

type CatalogStore interface {
	Load(ctx context.Context) (map[string]ProductData, error)
	Upsert(ctx context.Context, data ProductData) error
}
