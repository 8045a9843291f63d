package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closurelabs/ecoscan/internal/domain"
)

var seedBarcodes = []string{"0685450116442", "8901063142125", "8901052089844", "0194253408079"}

func TestCatalogInitializeSeedsEmptyStore(t *testing.T) {
	store := newFakeCatalogStore()
	uc := NewCatalogUC(store)
	uc.Initialize(context.Background())

	assert.Equal(t, len(seedBarcodes), uc.Len())
	for _, code := range seedBarcodes {
		d, ok := uc.Lookup(code)
		require.True(t, ok, "seed %s missing", code)
		assert.NotEmpty(t, d.Name)

		persisted, ok := store.get(code)
		require.True(t, ok, "seed %s not persisted", code)
		assert.Equal(t, d, persisted)
	}
}

func TestCatalogInitializeSeedsOnLoadError(t *testing.T) {
	store := newFakeCatalogStore()
	store.loadErr = errors.New("disk gone")
	uc := NewCatalogUC(store)
	uc.Initialize(context.Background())

	assert.Equal(t, len(seedBarcodes), uc.Len())
	_, ok := uc.Lookup("0685450116442")
	assert.True(t, ok)
}

func TestCatalogInitializeKeepsExistingStore(t *testing.T) {
	store := newFakeCatalogStore()
	store.items["4000417025005"] = domain.ProductData{Code: "4000417025005", Name: "Ritter Sport"}
	uc := NewCatalogUC(store)
	uc.Initialize(context.Background())

	assert.Equal(t, 1, uc.Len())
	d, ok := uc.Lookup("4000417025005")
	require.True(t, ok)
	assert.Equal(t, "Ritter Sport", d.Name)

	// A non-empty store is not reseeded.
	_, ok = uc.Lookup("0685450116442")
	assert.False(t, ok)
	assert.Zero(t, store.upserts)
}

func TestCatalogUpsertWriteThrough(t *testing.T) {
	store := newFakeCatalogStore()
	uc := NewCatalogUC(store)

	data := domain.ProductData{Code: "3017620422003", Name: "Nutella", Packaging: "Glass jar"}
	uc.Upsert(context.Background(), data)

	got, ok := uc.Lookup("3017620422003")
	require.True(t, ok)
	assert.Equal(t, data, got)

	persisted, ok := store.get("3017620422003")
	require.True(t, ok)
	assert.Equal(t, data, persisted)
}

func TestCatalogUpsertIgnoresEmptyCode(t *testing.T) {
	store := newFakeCatalogStore()
	uc := NewCatalogUC(store)

	uc.Upsert(context.Background(), domain.ProductData{Name: "nameless"})
	assert.Zero(t, uc.Len())
	assert.Zero(t, store.upserts)
}

func TestCatalogUpsertSwallowsStoreError(t *testing.T) {
	store := newFakeCatalogStore()
	store.upsertErr = errors.New("readonly fs")
	uc := NewCatalogUC(store)

	uc.Upsert(context.Background(), domain.ProductData{Code: "111111", Name: "Memory Only"})

	// The in-memory catalog still serves the entry.
	d, ok := uc.Lookup("111111")
	require.True(t, ok)
	assert.Equal(t, "Memory Only", d.Name)
}
