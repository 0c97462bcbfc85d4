package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/storage"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/id"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("product not found")

// Demo placeholder images.
const (
	DemoThumb = "https://via.placeholder.com/400x400/111827/ffd966?text=Demo"
	DemoLarge = "https://via.placeholder.com/1200x1200/111827/ffd966?text=Demo"
)

// Store persists the full product list.
type Store interface {
	Load(ctx context.Context) storage.LoadResult
	Save(ctx context.Context, products []product.Product) error
}

// Source supplies the remote catalog. An empty result means nothing loaded.
type Source interface {
	Fetch(ctx context.Context) []product.Product
}

// Confirmer decides whether a freshly fetched catalog replaces the list.
type Confirmer func(fetched []product.Product) bool

// Always returns a Confirmer with a fixed answer.
func Always(answer bool) Confirmer {
	return func([]product.Product) bool { return answer }
}

// Origin tells where the initial list came from.
type Origin string

const (
	OriginLocal   Origin = "local"
	OriginCatalog Origin = "catalog"
)

// Registry is the product list of one gallery instance.
type Registry struct {
	store  Store
	source Source
	newID  func() string
	rand   func() float64
	logger *zap.Logger

	mu       sync.RWMutex
	products []product.Product

	subMu   sync.RWMutex
	subs    map[int]func(Event)
	nextSub int
}

// Option customizes a Registry
type Option func(*Registry)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger.Named("registry") }
}

// WithIDFunc replaces the id generator for new records
func WithIDFunc(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithRand replaces the random source used for demo items
func WithRand(fn func() float64) Option {
	return func(r *Registry) { r.rand = fn }
}

// New creates an empty registry. Call Initialize before serving.
func New(store Store, source Source, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		source:   source,
		newID:    func() string { return id.NewProductID().String() },
		rand:     rand.Float64,
		logger:   zap.NewNop(),
		products: []product.Product{},
		subs:     make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize loads the starting list: persisted data when present,
// otherwise the catalog, which is then persisted as the baseline.
func (r *Registry) Initialize(ctx context.Context) (Origin, error) {
	if res := r.store.Load(ctx); res.Found() {
		r.mu.Lock()
		r.products = clone(res.Products)
		count := len(r.products)
		r.mu.Unlock()

		r.logger.Info("Using local edits", zap.Int("count", count))
		r.notify(Event{Kind: EventInitialized, Count: count})
		return OriginLocal, nil
	}

	fetched := r.source.Fetch(ctx)

	r.mu.Lock()
	r.products = clone(fetched)
	count := len(r.products)
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	r.logger.Info("Seeded from catalog", zap.Int("count", count))
	r.notify(Event{Kind: EventInitialized, Count: count})
	return OriginCatalog, err
}

// Create validates fields, assigns a fresh id and prepends the record.
func (r *Registry) Create(ctx context.Context, fields product.Fields) (product.Product, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return product.Product{}, err
	}
	return r.prepend(ctx, product.New(r.newID(), fields), EventCreated)
}

// AddDemo prepends a placeholder product with a random title and price.
func (r *Registry) AddDemo(ctx context.Context) (product.Product, error) {
	fields := product.Fields{
		Title: fmt.Sprintf("Demo %d", int(r.rand()*100)),
		Price: math.Round(r.rand()*100*100) / 100,
		Thumb: DemoThumb,
		Large: DemoLarge,
	}
	return r.prepend(ctx, product.New(r.newID(), fields), EventCreated)
}

func (r *Registry) prepend(ctx context.Context, p product.Product, kind EventKind) (product.Product, error) {
	r.mu.Lock()
	r.products = append([]product.Product{p}, r.products...)
	count := len(r.products)
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify(Event{Kind: kind, ID: p.ID, Count: count})
	return p, err
}

// Update applies patch to the record with the given id. Unknown ids are
// ignored and reported with ok=false; nothing is persisted in that case.
func (r *Registry) Update(ctx context.Context, productID string, patch product.Patch) (product.Product, bool, error) {
	r.mu.Lock()
	idx := r.indexLocked(productID)
	if idx < 0 {
		r.mu.Unlock()
		r.logger.Debug("Ignoring update of unknown product", zap.String("id", productID))
		return product.Product{}, false, nil
	}

	updated := r.products[idx].Apply(patch)
	fields := updated.Fields().Normalize()
	if err := fields.Validate(); err != nil {
		r.mu.Unlock()
		return product.Product{}, true, err
	}
	updated = product.New(productID, fields)

	r.products[idx] = updated
	count := len(r.products)
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify(Event{Kind: EventUpdated, ID: productID, Count: count})
	return updated, true, err
}

// Delete removes the record with the given id if present. The list is
// persisted either way.
func (r *Registry) Delete(ctx context.Context, productID string) (bool, error) {
	r.mu.Lock()
	idx := r.indexLocked(productID)
	if idx >= 0 {
		r.products = append(r.products[:idx:idx], r.products[idx+1:]...)
	}
	count := len(r.products)
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	if idx >= 0 {
		r.notify(Event{Kind: EventDeleted, ID: productID, Count: count})
	}
	return idx >= 0, err
}

// ClearAll empties the list.
func (r *Registry) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	r.products = []product.Product{}
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify(Event{Kind: EventCleared})
	return err
}

// Reload fetches the catalog and, only if confirm accepts the result,
// replaces the whole list. It reports whether the list was replaced.
func (r *Registry) Reload(ctx context.Context, confirm Confirmer) (bool, error) {
	fetched := r.source.Fetch(ctx)
	if confirm == nil || !confirm(fetched) {
		r.logger.Info("Catalog reload discarded", zap.Int("fetched", len(fetched)))
		return false, nil
	}

	r.mu.Lock()
	r.products = clone(fetched)
	count := len(r.products)
	err := r.persistLocked(ctx)
	r.mu.Unlock()

	r.logger.Info("Catalog reload applied", zap.Int("count", count))
	r.notify(Event{Kind: EventReloaded, Count: count})
	return true, err
}

// Find returns the records whose title contains term, case-insensitively,
// in list order. An empty term returns everything.
func (r *Registry) Find(term string) []product.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return product.Filter(r.products, term)
}

// List returns a copy of the current list
func (r *Registry) List() []product.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.products)
}

// Get returns the record with the given id
func (r *Registry) Get(productID string) (product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.indexLocked(productID); idx >= 0 {
		return r.products[idx], nil
	}
	return product.Product{}, fmt.Errorf("%w: %s", ErrNotFound, productID)
}

// Len returns the number of records
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *Registry) indexLocked(productID string) int {
	for i, p := range r.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (r *Registry) persistLocked(ctx context.Context) error {
	if err := r.store.Save(ctx, clone(r.products)); err != nil {
		r.logger.Error("Failed to persist products", zap.Error(err))
		return fmt.Errorf("failed to persist products: %w", err)
	}
	return nil
}

func clone(products []product.Product) []product.Product {
	out := make([]product.Product, len(products))
	copy(out, products)
	return out
}
