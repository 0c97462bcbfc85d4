package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/storage"
)

type fakeSource struct {
	mu    sync.Mutex
	items []product.Product
	calls int
}

func (s *fakeSource) Fetch(context.Context) []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := make([]product.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type failingStore struct {
	storage.LoadResult
	saves int
}

func (s *failingStore) Load(context.Context) storage.LoadResult { return s.LoadResult }

func (s *failingStore) Save(context.Context, []product.Product) error {
	s.saves++
	return errors.New("disk full")
}

func catalogItems() []product.Product {
	return []product.Product{
		{ID: "api_1", Title: "Red Jacket", Price: 49.99, Thumb: "https://img/1.png", Large: "https://img/1.png"},
		{ID: "api_2", Title: "Blue Jeans", Price: 29.5, Thumb: "https://img/2.png", Large: "https://img/2.png"},
		{ID: "api_3", Title: "Denim JACKET", Price: 79, Thumb: "https://img/3.png", Large: "https://img/3.png"},
	}
}

func sequentialIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("p_%04d", n)
	})
}

func fields(title string, price float64) product.Fields {
	return product.Fields{Title: title, Price: price, Thumb: "https://img/t.png", Large: "https://img/l.png"}
}

func newTestRegistry(t *testing.T, items []product.Product, opts ...Option) (*Registry, *storage.ProductStore, *fakeSource) {
	t.Helper()
	store := storage.NewProductStore(storage.NewMemory(), nil)
	source := &fakeSource{items: items}
	reg := New(store, source, opts...)
	_, err := reg.Initialize(context.Background())
	require.NoError(t, err)
	return reg, store, source
}

func TestInitializeUsesPersistedData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewProductStore(storage.NewMemory(), nil)
	local := []product.Product{{ID: "p_local", Title: "Mine", Price: 1, Thumb: "t", Large: "l"}}
	require.NoError(t, store.Save(ctx, local))

	source := &fakeSource{items: catalogItems()}
	reg := New(store, source)

	origin, err := reg.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, OriginLocal, origin)
	assert.Equal(t, 0, source.Calls(), "catalog must not be contacted when local data exists")
	assert.Equal(t, local, reg.List())
}

func TestInitializeFetchesCatalogWhenNothingStored(t *testing.T) {
	reg, store, source := newTestRegistry(t, catalogItems())

	assert.Equal(t, 1, source.Calls())
	assert.Equal(t, catalogItems(), reg.List())

	res := store.Load(context.Background())
	assert.Equal(t, storage.LoadOK, res.Status)
	assert.Equal(t, catalogItems(), res.Products)
}

func TestInitializePersistsEmptyCatalog(t *testing.T) {
	reg, store, source := newTestRegistry(t, nil)

	assert.Equal(t, 1, source.Calls())
	assert.Equal(t, 0, reg.Len())

	res := store.Load(context.Background())
	assert.Equal(t, storage.LoadOK, res.Status)
	assert.Empty(t, res.Products)
	assert.False(t, res.Found())
}

func TestInitializeEmptyPersistedListFallsBackToCatalog(t *testing.T) {
	ctx := context.Background()
	store := storage.NewProductStore(storage.NewMemory(), nil)
	require.NoError(t, store.Save(ctx, []product.Product{}))

	source := &fakeSource{items: catalogItems()}
	origin, err := New(store, source).Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, OriginCatalog, origin)
	assert.Equal(t, 1, source.Calls())
}

func TestCreatePrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, catalogItems())

	p, err := reg.Create(ctx, fields("  Green Hat  ", 12.5))
	require.NoError(t, err)
	assert.True(t, len(p.ID) > 2 && p.ID[:2] == "p_", "local ids carry the p_ prefix: %s", p.ID)
	assert.Equal(t, "Green Hat", p.Title)

	list := reg.List()
	require.Len(t, list, 4)
	assert.Equal(t, p, list[0])

	found := reg.Find("green hat")
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	assert.Equal(t, list, store.Load(ctx).Products)
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, catalogItems())

	_, err := reg.Create(ctx, product.Fields{Title: "   ", Price: -1})
	require.Error(t, err)
	assert.True(t, product.IsValidationError(err))
	assert.Equal(t, 3, reg.Len())
}

func TestCreateThenFindExactTitle(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, catalogItems())

	for _, title := range []string{"Tom & Jerry's Tee", `a < b "quoted"`, "Zürich Scarf"} {
		p, err := reg.Create(ctx, fields(title, 3))
		require.NoError(t, err)

		found := reg.Find(title)
		require.Len(t, found, 1, "title=%q", title)
		assert.Equal(t, p.ID, found[0].ID)
		assert.Equal(t, title, found[0].Title)
	}

	_, err := reg.Create(ctx, fields("<b>Red</b>", 3))
	assert.True(t, product.IsValidationError(err))
}

func TestCreateIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, nil)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := reg.Create(ctx, fields("Item", 1))
		require.NoError(t, err)
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestUpdateKeepsIDAndPosition(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, catalogItems())

	title := "Red Parka"
	price := 99.0
	updated, ok, err := reg.Update(ctx, "api_1", product.Patch{Title: &title, Price: &price})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "api_1", updated.ID)
	assert.Equal(t, "Red Parka", updated.Title)
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, "https://img/1.png", updated.Thumb)

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, updated, list[0])
	assert.Equal(t, list, store.Load(ctx).Products)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{LoadResult: storage.LoadResult{Status: storage.LoadOK, Products: catalogItems()}}
	reg := New(store, &fakeSource{})
	_, err := reg.Initialize(ctx)
	require.NoError(t, err)

	title := "Ghost"
	_, ok, err := reg.Update(ctx, "p_missing", product.Patch{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.saves, "unknown id must not persist")
	assert.Equal(t, catalogItems(), reg.List())
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, catalogItems())

	empty := ""
	_, ok, err := reg.Update(ctx, "api_2", product.Patch{Title: &empty})
	assert.True(t, ok)
	assert.True(t, product.IsValidationError(err))
	assert.Equal(t, catalogItems(), reg.List())
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, catalogItems())

	removed, err := reg.Delete(ctx, "api_2")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, reg.Len())

	removed, err = reg.Delete(ctx, "api_2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, reg.Len())

	_, err = reg.Get("api_2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, reg.List(), store.Load(ctx).Products)
}

func TestDeleteAlwaysPersists(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{LoadResult: storage.LoadResult{Status: storage.LoadOK, Products: catalogItems()}}
	reg := New(store, &fakeSource{})
	_, err := reg.Initialize(ctx)
	require.NoError(t, err)

	removed, err := reg.Delete(ctx, "nope")
	assert.False(t, removed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist products")
	assert.Equal(t, 1, store.saves)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, catalogItems())

	require.NoError(t, reg.ClearAll(ctx))
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Find(""))

	res := store.Load(ctx)
	assert.Equal(t, storage.LoadOK, res.Status)
	assert.Empty(t, res.Products)
}

func TestAddDemo(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, catalogItems(), WithRand(func() float64 { return 0.4215 }))

	p, err := reg.AddDemo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo 42", p.Title)
	assert.Equal(t, 42.15, p.Price)
	assert.Equal(t, DemoThumb, p.Thumb)
	assert.Equal(t, DemoLarge, p.Large)
	assert.Equal(t, p, reg.List()[0])
}

func TestFindIsCaseInsensitive(t *testing.T) {
	reg, _, _ := newTestRegistry(t, catalogItems())

	jackets := reg.Find("jacket")
	require.Len(t, jackets, 2)
	assert.Equal(t, "api_1", jackets[0].ID)
	assert.Equal(t, "api_3", jackets[1].ID)

	assert.Len(t, reg.Find("RED"), 1)
	assert.Len(t, reg.Find(""), 3)
	assert.Empty(t, reg.Find("sweater"))
}

func TestReloadDeclinedKeepsList(t *testing.T) {
	ctx := context.Background()
	reg, store, source := newTestRegistry(t, catalogItems())
	_, err := reg.Delete(ctx, "api_1")
	require.NoError(t, err)
	before := reg.List()

	var offered []product.Product
	replaced, err := reg.Reload(ctx, func(fetched []product.Product) bool {
		offered = fetched
		return false
	})
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, 2, source.Calls())
	assert.Len(t, offered, 3)
	assert.Equal(t, before, reg.List())
	assert.Equal(t, before, store.Load(ctx).Products)
}

func TestReloadConfirmedReplacesList(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, catalogItems())
	_, err := reg.Create(ctx, fields("Local only", 5))
	require.NoError(t, err)

	replaced, err := reg.Reload(ctx, Always(true))
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, catalogItems(), reg.List())
	assert.Equal(t, catalogItems(), store.Load(ctx).Products)
}

func TestPersistFailureKeepsMemoryChange(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	reg := New(store, &fakeSource{items: catalogItems()})

	_, err := reg.Initialize(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, reg.Len())

	p, err := reg.Create(ctx, fields("Kept", 3))
	require.Error(t, err)
	assert.Equal(t, p, reg.List()[0])
}

func TestSubscribeReceivesEvents(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t, catalogItems(), sequentialIDs())

	var events []Event
	unsubscribe := reg.Subscribe(func(ev Event) { events = append(events, ev) })

	p, err := reg.Create(ctx, fields("Hat", 1))
	require.NoError(t, err)
	_, err = reg.Delete(ctx, p.ID)
	require.NoError(t, err)
	_, err = reg.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, reg.ClearAll(ctx))

	unsubscribe()
	_, err = reg.AddDemo(ctx)
	require.NoError(t, err)

	want := []Event{
		{Kind: EventCreated, ID: "p_0001", Count: 4},
		{Kind: EventDeleted, ID: "p_0001", Count: 3},
		{Kind: EventCleared},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = reg.Create(ctx, fields(fmt.Sprintf("Item %d", i), float64(i)))
			_ = reg.Find("item")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, reg.Len())
	assert.Len(t, store.Load(ctx).Products, 20)
}

// TestRegistryMatchesModel drives random operation sequences against a
// plain slice model and checks the list, the store and search agree.
func TestRegistryMatchesModel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		store := storage.NewProductStore(storage.NewMemory(), nil)
		reg := New(store, &fakeSource{items: catalogItems()}, sequentialIDs())
		_, err := reg.Initialize(ctx)
		require.NoError(rt, err)

		model := catalogItems()
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				title := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,10}[A-Za-z]`).Draw(rt, "title")
				price := float64(rapid.IntRange(0, 10000).Draw(rt, "cents")) / 100
				p, err := reg.Create(ctx, fields(title, price))
				require.NoError(rt, err)
				model = append([]product.Product{p}, model...)
			case 1:
				if len(model) == 0 {
					continue
				}
				idx := rapid.IntRange(0, len(model)-1).Draw(rt, "updateIdx")
				title := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "newTitle")
				_, ok, err := reg.Update(ctx, model[idx].ID, product.Patch{Title: &title})
				require.NoError(rt, err)
				require.True(rt, ok)
				model[idx].Title = title
			case 2:
				if len(model) == 0 || rapid.Bool().Draw(rt, "deleteMissing") {
					removed, err := reg.Delete(ctx, "p_missing")
					require.NoError(rt, err)
					require.False(rt, removed)
					continue
				}
				idx := rapid.IntRange(0, len(model)-1).Draw(rt, "deleteIdx")
				removed, err := reg.Delete(ctx, model[idx].ID)
				require.NoError(rt, err)
				require.True(rt, removed)
				model = append(model[:idx:idx], model[idx+1:]...)
			}
		}

		if diff := cmp.Diff(model, reg.List()); diff != "" {
			rt.Fatalf("registry diverged from model (-want +got):\n%s", diff)
		}
		require.Equal(rt, reg.List(), store.Load(ctx).Products)

		term := rapid.StringMatching(`[a-z]{0,2}`).Draw(rt, "term")
		require.Equal(rt, product.Filter(model, term), reg.Find(term))
	})
}
