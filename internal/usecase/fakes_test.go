package usecase

import (
	"context"
	"sync"

	"github.com/closurelabs/ecoscan/internal/domain"
)

type nutritionFunc func(ctx context.Context, barcode string) (*domain.NutritionData, error)

func (f nutritionFunc) Nutrition(ctx context.Context, barcode string) (*domain.NutritionData, error) {
	return f(ctx, barcode)
}

type allergenFunc func(ctx context.Context, barcode string) ([]string, error)

func (f allergenFunc) Allergens(ctx context.Context, barcode string) ([]string, error) {
	return f(ctx, barcode)
}

type productFunc func(ctx context.Context, barcode string) (*domain.ProductData, error)

func (f productFunc) Product(ctx context.Context, barcode string) (*domain.ProductData, error) {
	return f(ctx, barcode)
}

// countingGen is a TextGenerator double that records how often it was
// invoked.
type countingGen struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (g *countingGen) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *countingGen) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeCatalogStore struct {
	mu        sync.Mutex
	items     map[string]domain.ProductData
	loadErr   error
	upsertErr error
	upserts   int
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{items: map[string]domain.ProductData{}}
}

func (s *fakeCatalogStore) Load(ctx context.Context) (map[string]domain.ProductData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]domain.ProductData, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

func (s *fakeCatalogStore) Upsert(ctx context.Context, data domain.ProductData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.items[data.Code] = data
	return nil
}

func (s *fakeCatalogStore) get(code string) (domain.ProductData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.items[code]
	return d, ok
}

type fakeHistoryStore struct {
	mu         sync.Mutex
	saved      []domain.ProductRecord
	loadData   []domain.ProductRecord
	loadErr    error
	replaceErr error
	replaces   int
}

func (s *fakeHistoryStore) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.ProductRecord, len(s.loadData))
	copy(out, s.loadData)
	return out, nil
}

func (s *fakeHistoryStore) Replace(ctx context.Context, records []domain.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaces++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.saved = make([]domain.ProductRecord, len(records))
	copy(s.saved, records)
	s.loadData = s.saved
	return nil
}

func (s *fakeHistoryStore) persisted() []domain.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ProductRecord, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *fakeHistoryStore) replaceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaces
}
