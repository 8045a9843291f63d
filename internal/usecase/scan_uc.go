package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/closurelabs/ecoscan/internal/domain"
)

type ScanState string

const (
	StateIdle     ScanState = "idle"
	StateLoading  ScanState = "loading"
	StateResolved ScanState = "resolved"
	StateFailed   ScanState = "failed"
)

const notFoundMessage = "Product not found in database.\nOnly supported products can be scanned."

// ScanUC coordinates one scan: catalog lookup, concurrent enrichment,
// carbon estimation (with history short-circuit) and the history commit.
// A generation counter correlates in-flight chains with the most recent
// submission; late results from an older scan are discarded, never
// cancelled mid-flight.
type ScanUC struct {
	catalog   *CatalogUC
	aggregate *AggregateUC
	estimator *EstimatorUC
	history   *HistoryUC

	mu      sync.Mutex
	gen     uint64
	state   ScanState
	barcode string
	result  *domain.ProductRecord
	errMsg  string
}

func NewScanUC(catalog *CatalogUC, aggregate *AggregateUC, estimator *EstimatorUC, history *HistoryUC) *ScanUC {
	return &ScanUC{
		catalog:   catalog,
		aggregate: aggregate,
		estimator: estimator,
		history:   history,
		state:     StateIdle,
	}
}

func (uc *ScanUC) State() ScanState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}

// Barcode returns the code of the most recent submission; it stays visible
// after a failure for diagnostic display.
func (uc *ScanUC) Barcode() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.barcode
}

func (uc *ScanUC) Result() *domain.ProductRecord {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.result == nil {
		return nil
	}
	rec := *uc.result
	return &rec
}

func (uc *ScanUC) ErrMessage() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.errMsg
}

// Scan resolves one barcode end to end. It is safe to call concurrently;
// only the chain belonging to the latest submission commits its result.
func (uc *ScanUC) Scan(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	token := uc.begin(barcode)

	var seed *domain.ProductData
	if data, ok := uc.catalog.Lookup(barcode); ok {
		seed = &data
	}

	info, err := uc.aggregate.Aggregate(ctx, barcode, seed)
	if err != nil {
		return nil, uc.fail(token, err)
	}

	estimated := uc.resolveEstimate(ctx, barcode, info)

	rec := buildRecord(barcode, info, estimated)
	return uc.commit(ctx, token, rec)
}

// resolveEstimate reuses a previously persisted estimate for this barcode
// when one exists; the text-generation call is slow and costly, and its
// results are non-deterministic across invocations.
func (uc *ScanUC) resolveEstimate(ctx context.Context, barcode string, info *domain.ProductInfo) string {
	if prev := uc.history.FindByBarcode(barcode); prev != nil && prev.EstimatedCarbon != "" {
		return prev.EstimatedCarbon
	}
	est, err := uc.estimator.Estimate(ctx, info)
	if err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("footprint unavailable")
		return ""
	}
	return est.Display()
}

func (uc *ScanUC) begin(barcode string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.gen++
	uc.state = StateLoading
	uc.barcode = barcode
	uc.result = nil
	uc.errMsg = ""
	return uc.gen
}

func (uc *ScanUC) fail(token uint64, cause error) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.gen != token {
		return domain.ErrStaleScan
	}
	uc.state = StateFailed
	uc.errMsg = notFoundMessage
	if !errors.Is(cause, domain.ErrNotFound) {
		cause = fmt.Errorf("%w: %s", domain.ErrNotFound, cause)
	}
	return cause
}

func (uc *ScanUC) commit(ctx context.Context, token uint64, rec domain.ProductRecord) (*domain.ProductRecord, error) {
	uc.mu.Lock()
	if uc.gen != token {
		uc.mu.Unlock()
		return nil, domain.ErrStaleScan
	}
	uc.state = StateResolved
	uc.result = &rec
	uc.mu.Unlock()

	if existing := uc.history.FindByBarcode(rec.Barcode); existing == nil {
		uc.history.Insert(ctx, rec)
	} else if existing.EstimatedCarbon == "" && rec.EstimatedCarbon != "" {
		// The entry predates its estimate; reattach via delete-then-reinsert.
		uc.history.Update(ctx, rec.Barcode, func(r *domain.ProductRecord) {
			*r = rec
			r.ID = existing.ID
		})
	}
	out := rec
	return &out, nil
}

func buildRecord(barcode string, info *domain.ProductInfo, estimated string) domain.ProductRecord {
	name := info.Name
	if name == "" {
		name = "Unknown Product"
	}
	packaging := info.Packaging
	if packaging == "" {
		packaging = "Unknown Packaging"
	}
	return domain.ProductRecord{
		ID:                 uuid.New(),
		Barcode:            barcode,
		Name:               name,
		Packaging:          packaging,
		PackagingTags:      info.PackagingTags,
		EcoGrade:           info.EcoGrade,
		CarbonFootprintRaw: info.CarbonFootprintRaw,
		EstimatedCarbon:    estimated,
		Ingredients:        info.Ingredients,
		Quantity:           info.Quantity,
		ImageURL:           info.ImageURL,
		Allergens:          info.Allergens,
		Nutrition:          info.Nutrition,
		ScannedAt:          time.Now(),
	}
}
