package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EcoGrade string

const (
	GradeA EcoGrade = "A"
	GradeB EcoGrade = "B"
	GradeC EcoGrade = "C"
	GradeD EcoGrade = "D"
	GradeE EcoGrade = "E"
)

// ParseEcoGrade normalizes a provider-supplied grade. Anything outside A..E
// (OpenFoodFacts also sends "unknown" and "not-applicable") maps to empty.
func ParseEcoGrade(s string) EcoGrade {
	g := EcoGrade(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return g
	}
	return ""
}

func (g EcoGrade) Description() string {
	switch g {
	case GradeA:
		return "Excellent environmental impact"
	case GradeB:
		return "Good environmental impact"
	case GradeC:
		return "Average environmental impact"
	case GradeD:
		return "Poor environmental impact"
	case GradeE:
		return "Very poor environmental impact"
	}
	return "No eco score available"
}

type NutritionInfo struct {
	Calories     *float64 `json:"calories,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Carbohydrate *float64 `json:"carbohydrate,omitempty"`
	Sugar        *float64 `json:"sugar,omitempty"`
}

type ProductRecord struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Barcode            string         `gorm:"size:20;uniqueIndex"`
	Name               string         `gorm:"size:180"`
	Packaging          string         `gorm:"size:180"`
	PackagingTags      []string       `gorm:"type:text;serializer:json"`
	EcoGrade           EcoGrade       `gorm:"size:2"`
	CarbonFootprintRaw string         `gorm:"size:60"`
	EstimatedCarbon    string         `gorm:"size:60"`
	Ingredients        string         `gorm:"type:text"`
	Quantity           string         `gorm:"size:60"`
	ImageURL           string         `gorm:"size:255"`
	Allergens          []string       `gorm:"type:text;serializer:json"`
	Nutrition          *NutritionInfo `gorm:"type:text;serializer:json"`
	ScannedAt          time.Time
	Position           int `gorm:"index"`
}

// CarbonDisplay prefers the generated estimate over the provider-supplied
// footprint wherever both exist.
func (p *ProductRecord) CarbonDisplay() string {
	if p.EstimatedCarbon != "" {
		return p.EstimatedCarbon
	}
	if p.CarbonFootprintRaw != "" {
		return p.CarbonFootprintRaw
	}
	return "Not Available"
}

func (p *ProductRecord) HasTag(tag string) bool {
	for _, t := range p.PackagingTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

func (l ImpactLevel) Description() string {
	switch l {
	case ImpactLow:
		return "Low Environmental Impact"
	case ImpactMedium:
		return "Medium Environmental Impact"
	}
	return "High Environmental Impact"
}

// EnvironmentalImpact is derived from packaging and grade data. It is always
// recomputed from the record, never persisted on its own.
type EnvironmentalImpact struct {
	Score           float64
	Recyclable      bool
	Biodegradable   bool
	CarbonFootprint string
	EcoGrade        EcoGrade
}

func (i EnvironmentalImpact) Level() ImpactLevel {
	switch {
	case i.Score < 4:
		return ImpactHigh
	case i.Score < 7:
		return ImpactMedium
	}
	return ImpactLow
}

func (p *ProductRecord) Impact() EnvironmentalImpact {
	recyclable := p.HasTag("recyclable")
	biodegradable := p.HasTag("biodegradable")

	score := 5.0
	switch p.EcoGrade {
	case GradeA:
		score += 3.0
	case GradeB:
		score += 2.0
	case GradeC:
		score += 1.0
	case GradeD:
		score -= 1.0
	case GradeE:
		score -= 2.0
	}
	if recyclable {
		score += 2.5
	}
	if biodegradable {
		score += 2.5
	}
	packaging := strings.ToLower(p.Packaging)
	if strings.Contains(packaging, "plastic") {
		score -= 1.0
	}
	if strings.Contains(packaging, "paper") || strings.Contains(packaging, "cardboard") {
		score += 1.0
	}
	if strings.Contains(packaging, "aluminum") {
		score += 0.5
	}
	if strings.Contains(packaging, "glass") {
		score += 1.5
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	return EnvironmentalImpact{
		Score:           score,
		Recyclable:      recyclable,
		Biodegradable:   biodegradable,
		CarbonFootprint: p.CarbonDisplay(),
		EcoGrade:        p.EcoGrade,
	}
}

type EcoLabel string

const (
	EcoFriendly    EcoLabel = "Eco-Friendly"
	NotEcoFriendly EcoLabel = "Not Eco-Friendly"
)

// CarbonEstimate is the estimator's output. Raw is only set when the
// provider response could not be parsed into a numeric value.
type CarbonEstimate struct {
	ValueKgCO2e float64
	EcoLabel    EcoLabel
	Raw         string
}

func (e CarbonEstimate) Structured() bool { return e.Raw == "" }

func (e CarbonEstimate) Display() string {
	if e.Raw != "" {
		return e.Raw
	}
	return fmt.Sprintf("%.2f kg CO₂e", e.ValueKgCO2e)
}
