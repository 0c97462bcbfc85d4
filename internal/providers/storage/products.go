package storage

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
)

// LoadStatus tells whether a persisted product list was found.
type LoadStatus int

const (
	// LoadEmpty means nothing usable was stored.
	LoadEmpty LoadStatus = iota
	// LoadOK means a well-formed list was read (it may still be empty).
	LoadOK
)

func (s LoadStatus) String() string {
	if s == LoadOK {
		return "ok"
	}
	return "empty"
}

// LoadResult is the outcome of ProductStore.Load.
type LoadResult struct {
	Status   LoadStatus
	Products []product.Product
}

// Found reports whether a non-empty list was stored.
func (r LoadResult) Found() bool {
	return r.Status == LoadOK && len(r.Products) > 0
}

// ProductStore persists the product list under KeyProducts.
type ProductStore struct {
	kv     KV
	logger *zap.Logger
}

// NewProductStore wraps kv. A nil logger disables logging.
func NewProductStore(kv KV, logger *zap.Logger) *ProductStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductStore{kv: kv, logger: logger.Named("store")}
}

// Load reads the persisted list. It never fails: unreadable or malformed
// data is logged and reported as LoadEmpty.
func (s *ProductStore) Load(ctx context.Context) LoadResult {
	raw, ok, err := s.kv.Get(ctx, KeyProducts)
	if err != nil {
		s.logger.Warn("Failed to read persisted products", zap.Error(err))
		return LoadResult{Status: LoadEmpty}
	}
	if !ok {
		return LoadResult{Status: LoadEmpty}
	}

	products, err := decodeProducts(raw)
	if err != nil {
		s.logger.Warn("Ignoring malformed persisted products", zap.Error(err))
		return LoadResult{Status: LoadEmpty}
	}

	return LoadResult{Status: LoadOK, Products: products}
}

// Save overwrites the persisted list.
func (s *ProductStore) Save(ctx context.Context, products []product.Product) error {
	if products == nil {
		products = []product.Product{}
	}
	data, err := sonic.MarshalString(products)
	if err != nil {
		return fmt.Errorf("failed to serialize products: %w", err)
	}
	return s.kv.Set(ctx, KeyProducts, data)
}

func decodeProducts(raw string) ([]product.Product, error) {
	var products []product.Product
	if err := sonic.UnmarshalString(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to deserialize: %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("stored value is not a list")
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("record %d has empty id", i)
		}
	}
	return products, nil
}
