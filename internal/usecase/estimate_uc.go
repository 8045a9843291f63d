package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/closurelabs/ecoscan/internal/domain"
)

const estimatePrompt = `Given the following product details, estimate the total carbon footprint in kilograms of CO₂ equivalent (kg CO₂e) for the product. Also, provide an eco-friendly label (Eco-Friendly or Not Eco-Friendly). Use the product's packaging, ingredients, quantity, and ecoScoreGrade to make your estimate. Do not use a default value. If information is missing, make your best estimate based on what is provided. Carefully analyze the provided product details. Your answer must be based on these details. Return the result in the following JSON format:
{
  "total_kg_co2e": <number, e.g. 0.15>,
  "eco_friendly_label": "<Eco-Friendly or Not Eco-Friendly>"
}
Product details:
- Name: %s
- Packaging: %s
- Ingredients: %s
- Quantity: %s
- EcoScore Grade: %s`

// co2eRe matches "<float> kg CO2e" with either the ASCII 2 or the subscript,
// with or without the trailing e.
var co2eRe = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*kg\s*CO[2₂]e?`)

// EstimatorUC turns a merged product record into a carbon footprint via the
// text-generation provider. The provider is not schema-reliable, so parsing
// degrades gracefully: strict JSON, then a labeled line, then raw text.
type EstimatorUC struct {
	Gen domain.TextGenerator
}

// BuildPrompt is deterministic for identical product info.
func (uc *EstimatorUC) BuildPrompt(info *domain.ProductInfo) string {
	return fmt.Sprintf(estimatePrompt,
		info.Name, info.Packaging, info.Ingredients, info.Quantity, string(info.EcoGrade))
}

// Estimate returns domain.ErrEstimation only on transport-level failure;
// any response text, however malformed, yields a displayable estimate.
func (uc *EstimatorUC) Estimate(ctx context.Context, info *domain.ProductInfo) (domain.CarbonEstimate, error) {
	if uc.Gen == nil {
		return domain.CarbonEstimate{}, fmt.Errorf("%w: no text generator configured", domain.ErrEstimation)
	}
	response, err := uc.Gen.Generate(ctx, uc.BuildPrompt(info))
	if err != nil {
		return domain.CarbonEstimate{}, fmt.Errorf("%w: %s", domain.ErrEstimation, err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return domain.CarbonEstimate{}, fmt.Errorf("%w: empty response", domain.ErrEstimation)
	}

	if est, ok := parseJSONEstimate(response); ok {
		return est, nil
	}
	if est, ok := parseLineEstimate(response); ok {
		return est, nil
	}
	log.Debug().Str("product", info.Name).Msg("carbon response unparsable, keeping raw text")
	return domain.CarbonEstimate{Raw: response}, nil
}

// parseJSONEstimate extracts the substring between the first "{" and the
// last "}" and decodes the requested shape.
func parseJSONEstimate(response string) (domain.CarbonEstimate, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return domain.CarbonEstimate{}, false
	}
	var payload struct {
		TotalKgCO2e      *float64 `json:"total_kg_co2e"`
		EcoFriendlyLabel string   `json:"eco_friendly_label"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err != nil || payload.TotalKgCO2e == nil {
		return domain.CarbonEstimate{}, false
	}
	return domain.CarbonEstimate{
		ValueKgCO2e: *payload.TotalKgCO2e,
		EcoLabel:    parseEcoLabel(payload.EcoFriendlyLabel),
	}, true
}

// parseLineEstimate scans lines bottom-to-top for a numeric value with a
// kg CO₂e unit, preferring explicitly labeled totals.
func parseLineEstimate(response string) (domain.CarbonEstimate, bool) {
	lines := strings.Split(response, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if !strings.Contains(strings.ToLower(lines[i]), "total carbon footprint:") {
			continue
		}
		if est, ok := matchCO2e(lines[i]); ok {
			return est, true
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if est, ok := matchCO2e(lines[i]); ok {
			return est, true
		}
	}
	return domain.CarbonEstimate{}, false
}

func matchCO2e(line string) (domain.CarbonEstimate, bool) {
	m := co2eRe.FindStringSubmatch(line)
	if m == nil {
		return domain.CarbonEstimate{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.CarbonEstimate{}, false
	}
	return domain.CarbonEstimate{ValueKgCO2e: v, EcoLabel: lineEcoLabel(line)}, true
}

func parseEcoLabel(s string) domain.EcoLabel {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(s), "not") {
		return domain.NotEcoFriendly
	}
	return domain.EcoFriendly
}

func lineEcoLabel(line string) domain.EcoLabel {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "not eco-friendly"), strings.Contains(l, "not eco friendly"):
		return domain.NotEcoFriendly
	case strings.Contains(l, "eco-friendly"), strings.Contains(l, "eco friendly"):
		return domain.EcoFriendly
	}
	return ""
}
