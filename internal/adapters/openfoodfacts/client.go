package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/closurelabs/ecoscan/internal/domain"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

const nutritionFields = "product_name,ingredients_text,nutriments,ecoscore_grade,quantity,packaging,packaging_tags,image_url"

// Client talks to the OpenFoodFacts product, nutrition and allergen
// endpoints. Responses are decoded defensively: absent keys are common and
// never an error on their own.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// flexString tolerates providers that send a field as either a JSON string
// or a bare number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	*s = flexString(strings.Trim(raw, `"`))
	return nil
}

// flexFloat tolerates numbers sent as quoted strings, and null.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "null" || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	f.value = v
	f.set = true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

func (c *Client) Product(ctx context.Context, barcode string) (*domain.ProductData, error) {
	var payload struct {
		Status  int `json:"status"`
		Product struct {
			ProductName     string     `json:"product_name"`
			Packaging       string     `json:"packaging"`
			PackagingTags   []string   `json:"packaging_tags"`
			CarbonFootprint flexString `json:"carbon_footprint_100g"`
			EcoScore        flexString `json:"ecoscore_score"`
			EcoScoreGrade   string     `json:"ecoscore_grade"`
		} `json:"product"`
	}
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Status != 1 {
		return nil, domain.ErrNotFound
	}
	return &domain.ProductData{
		Code:            barcode,
		Name:            payload.Product.ProductName,
		Packaging:       payload.Product.Packaging,
		PackagingTags:   payload.Product.PackagingTags,
		CarbonFootprint: string(payload.Product.CarbonFootprint),
		EcoScore:        string(payload.Product.EcoScore),
		EcoScoreGrade:   domain.ParseEcoGrade(payload.Product.EcoScoreGrade),
	}, nil
}

func (c *Client) Nutrition(ctx context.Context, barcode string) (*domain.NutritionData, error) {
	var payload struct {
		Status  int `json:"status"`
		Product struct {
			ProductName     string   `json:"product_name"`
			IngredientsText string   `json:"ingredients_text"`
			EcoScoreGrade   string   `json:"ecoscore_grade"`
			Quantity        string   `json:"quantity"`
			Packaging       string   `json:"packaging"`
			PackagingTags   []string `json:"packaging_tags"`
			ImageURL        string   `json:"image_url"`
			Nutriments      struct {
				EnergyKcal    flexFloat `json:"energy-kcal_100g"`
				Fat           flexFloat `json:"fat_100g"`
				Proteins      flexFloat `json:"proteins_100g"`
				Carbohydrates flexFloat `json:"carbohydrates_100g"`
				Sugars        flexFloat `json:"sugars_100g"`
			} `json:"nutriments"`
		} `json:"product"`
	}
	url := fmt.Sprintf("%s/api/v2/product/%s?fields=%s", c.baseURL, barcode, nutritionFields)
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Status != 1 {
		return nil, domain.ErrNotFound
	}

	p := payload.Product
	data := &domain.NutritionData{
		Name:          p.ProductName,
		Ingredients:   p.IngredientsText,
		Quantity:      p.Quantity,
		Packaging:     p.Packaging,
		PackagingTags: p.PackagingTags,
		ImageURL:      p.ImageURL,
		EcoScoreGrade: domain.ParseEcoGrade(p.EcoScoreGrade),
	}
	facts := domain.NutritionInfo{
		Calories:     p.Nutriments.EnergyKcal.ptr(),
		Fat:          p.Nutriments.Fat.ptr(),
		Protein:      p.Nutriments.Proteins.ptr(),
		Carbohydrate: p.Nutriments.Carbohydrates.ptr(),
		Sugar:        p.Nutriments.Sugars.ptr(),
	}
	if facts.Calories != nil || facts.Fat != nil || facts.Protein != nil ||
		facts.Carbohydrate != nil || facts.Sugar != nil {
		data.Facts = &facts
	}
	return data, nil
}

// Allergens merges every allergen shape the provider may send: taxonomy
// tags, hierarchy entries, the free-text list and traces.
func (c *Client) Allergens(ctx context.Context, barcode string) ([]string, error) {
	var payload struct {
		Status  int `json:"status"`
		Product struct {
			AllergensTags      []string `json:"allergens_tags"`
			AllergensHierarchy []string `json:"allergens_hierarchy"`
			Allergens          string   `json:"allergens"`
			TracesTags         []string `json:"traces_tags"`
		} `json:"product"`
	}
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Status != 1 {
		return nil, domain.ErrNotFound
	}

	p := payload.Product
	raw := make([]string, 0, len(p.AllergensTags)+len(p.AllergensHierarchy)+len(p.TracesTags)+1)
	raw = append(raw, p.AllergensTags...)
	raw = append(raw, p.AllergensHierarchy...)
	if strings.TrimSpace(p.Allergens) != "" {
		raw = append(raw, p.Allergens)
	}
	raw = append(raw, p.TracesTags...)
	return raw, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ecoscan/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("malformed provider response")
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
