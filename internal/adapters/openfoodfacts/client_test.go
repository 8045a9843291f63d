package openfoodfacts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closurelabs/ecoscan/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/3017620422003.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{
			"status": 1,
			"product": {
				"product_name": "Nutella",
				"packaging": "Glass jar, plastic lid",
				"packaging_tags": ["en:glass", "en:plastic"],
				"ecoscore_score": 42,
				"ecoscore_grade": "d"
			}
		}`)
	})

	got, err := c.Product(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "3017620422003", got.Code)
	assert.Equal(t, "Nutella", got.Name)
	assert.Equal(t, "Glass jar, plastic lid", got.Packaging)
	assert.Equal(t, []string{"en:glass", "en:plastic"}, got.PackagingTags)
	// Numeric ecoscore_score is accepted and kept as text.
	assert.Equal(t, "42", got.EcoScore)
	assert.Equal(t, domain.GradeD, got.EcoScoreGrade)
}

func TestProductNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 0, "status_verbose": "product not found"}`)
	})

	_, err := c.Product(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Product(context.Background(), "3017620422003")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestProductMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	_, err := c.Product(context.Background(), "3017620422003")
	assert.Error(t, err)
}

func TestNutrition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/8901063142125", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "fields=")
		fmt.Fprint(w, `{
			"status": 1,
			"product": {
				"product_name": "Maggi 2-Minute Noodles",
				"ingredients_text": "Wheat flour, palm oil, salt",
				"quantity": "70 g",
				"packaging": "Plastic wrapper",
				"packaging_tags": ["en:plastic"],
				"image_url": "https://images.example/maggi.jpg",
				"ecoscore_grade": "d",
				"nutriments": {
					"energy-kcal_100g": 444,
					"fat_100g": "15.2",
					"proteins_100g": 9.7,
					"sugars_100g": null
				}
			}
		}`)
	})

	got, err := c.Nutrition(context.Background(), "8901063142125")
	require.NoError(t, err)
	assert.Equal(t, "Maggi 2-Minute Noodles", got.Name)
	assert.Equal(t, "Wheat flour, palm oil, salt", got.Ingredients)
	assert.Equal(t, "70 g", got.Quantity)
	assert.Equal(t, domain.GradeD, got.EcoScoreGrade)

	require.NotNil(t, got.Facts)
	require.NotNil(t, got.Facts.Calories)
	assert.Equal(t, 444.0, *got.Facts.Calories)
	// Quoted numbers decode too.
	require.NotNil(t, got.Facts.Fat)
	assert.Equal(t, 15.2, *got.Facts.Fat)
	assert.Equal(t, 9.7, *got.Facts.Protein)
	assert.Nil(t, got.Facts.Sugar)
	assert.Nil(t, got.Facts.Carbohydrate)
}

func TestNutritionWithoutNutriments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 1, "product": {"product_name": "Mystery Bar"}}`)
	})

	got, err := c.Nutrition(context.Background(), "1234567890123")
	require.NoError(t, err)
	assert.Equal(t, "Mystery Bar", got.Name)
	assert.Nil(t, got.Facts)
}

func TestAllergensMergesAllShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": 1,
			"product": {
				"allergens_tags": ["en:gluten"],
				"allergens_hierarchy": ["en:milk"],
				"allergens": "soy, sesame seeds",
				"traces_tags": ["en:peanuts"]
			}
		}`)
	})

	raw, err := c.Allergens(context.Background(), "8901052089844")
	require.NoError(t, err)
	assert.Equal(t, []string{"en:gluten", "en:milk", "soy, sesame seeds", "en:peanuts"}, raw)

	// The adapter returns raw provider values; canonicalization is the
	// domain's job.
	assert.Equal(t, []string{"Gluten", "Milk", "Soy", "Sesame", "Peanut"}, domain.NormalizeAllergens(raw))
}

func TestAllergensNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 0}`)
	})

	_, err := c.Allergens(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
