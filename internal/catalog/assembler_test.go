package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu sync.Mutex

	restaurants  []model.Restaurant
	branches     []model.Branch
	categories   []model.Category
	products     []model.Product
	assignments  []model.BranchProduct
	taxes        []model.TaxAssignment
	optionGroups []model.ProductOptionGroup
	overrides    []RawRow
	combos       []model.Combo
	branchCombos []RawRow
	taxRequests  map[model.TaxScope][]uint
	failProducts error
	productCalls int
}

func (f *fakeSource) GetRestaurant(ctx context.Context, id uint) (*model.Restaurant, error) {
	for i := range f.restaurants {
		if f.restaurants[i].ID == id {
			r := f.restaurants[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	return f.restaurants, nil
}

func (f *fakeSource) ListBranches(ctx context.Context, restaurantID uint) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range f.branches {
		if b.RestaurantID == restaurantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeSource) ListCategories(ctx context.Context, restaurantID uint) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSource) ListProducts(ctx context.Context, restaurantID uint, filter ProductFilter) ([]model.Product, error) {
	f.mu.Lock()
	f.productCalls++
	f.mu.Unlock()
	if f.failProducts != nil {
		return nil, f.failProducts
	}

	var out []model.Product
	for _, p := range f.products {
		if p.RestaurantID != restaurantID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSource) ListBranchAssignments(ctx context.Context, productIDs []uint) ([]model.BranchProduct, error) {
	return f.assignments, nil
}

func (f *fakeSource) ListTaxAssignments(ctx context.Context, scope model.TaxScope, ids []uint) ([]model.TaxAssignment, error) {
	f.mu.Lock()
	if f.taxRequests == nil {
		f.taxRequests = make(map[model.TaxScope][]uint)
	}
	f.taxRequests[scope] = append([]uint{}, ids...)
	f.mu.Unlock()

	var out []model.TaxAssignment
	for _, ta := range f.taxes {
		if ta.Scope == scope {
			out = append(out, ta)
		}
	}
	return out, nil
}

func (f *fakeSource) ListOptionGroups(ctx context.Context, productIDs []uint) ([]model.ProductOptionGroup, error) {
	return f.optionGroups, nil
}

func (f *fakeSource) ListBranchOptionOverrides(ctx context.Context, branchIDs, productIDs []uint) ([]RawRow, error) {
	return f.overrides, nil
}

func (f *fakeSource) ListCombos(ctx context.Context, restaurantID uint) ([]model.Combo, error) {
	return f.combos, nil
}

func (f *fakeSource) ListBranchCombos(ctx context.Context, branchIDs []uint) ([]RawRow, error) {
	return f.branchCombos, nil
}

// newTestSource builds restaurant 1 with two branches: branch 10 overrides
// the burger price and carries a per-product tax for the fries, branch 20
// has its own tax rate and hides one option item.
func newTestSource() *fakeSource {
	categoryID := uint(100)
	return &fakeSource{
		restaurants: []model.Restaurant{{ID: 1, Name: "Burger House", Slug: "burger-house", Currency: "KRW", IsActive: true}},
		branches: []model.Branch{
			{ID: 20, RestaurantID: 1, Name: "Gangnam", IsActive: true, DisplayOrder: 2},
			{ID: 10, RestaurantID: 1, Name: "Hongdae", IsActive: true, DisplayOrder: 1},
		},
		categories: []model.Category{
			{ID: 100, RestaurantID: 1, Name: "Burgers", DisplayOrder: 1, Branches: []model.CategoryBranch{
				{ID: 1, CategoryID: 100, BranchID: 10, IsActive: true, IsVisible: true},
				{ID: 2, CategoryID: 100, BranchID: 20, IsActive: true, IsVisible: false},
			}},
			{ID: 200, RestaurantID: 1, Name: "Seasonal", DisplayOrder: 2},
		},
		products: []model.Product{
			{ID: 1, RestaurantID: 1, CategoryID: &categoryID, Name: "Classic Burger", BasePrice: 100000, IsAvailable: true, IsVisible: true, DisplayOrder: 1},
			{ID: 2, RestaurantID: 1, CategoryID: &categoryID, Name: "Fries", BasePrice: 5000, IsAvailable: true, IsVisible: true, DisplayOrder: 2},
		},
		assignments: []model.BranchProduct{
			{ID: 44, BranchID: 10, ProductID: 1, PriceMode: model.PriceModeOverride, BasePriceOverride: ratePtr(90000), IsAvailable: true, IsVisible: true, StockQuantity: intPtr(30)},
		},
		taxes: []model.TaxAssignment{
			restaurantTax(1, 7),
			branchTax(2, 20, 10),
			branchProductTax(3, 10, 2, 5),
		},
		optionGroups: []model.ProductOptionGroup{
			{ID: 1, ProductID: 2, GroupID: 50, Group: sizeGroup().Group},
		},
		overrides: []RawRow{
			{"id": int64(1), "branch_id": int64(10), "target_type": "item", "target_id": int64(51), "price_delta_override": nil},
			{"id": int64(2), "branch_id": int64(20), "item_id": int64(52), "is_available": int64(0)},
			{"id": int64(3), "is_active": false},
		},
		combos: testCombos(),
		branchCombos: []RawRow{
			{"id": int64(1), "branch_id": int64(10), "combo_id": int64(300), "base_price_override": 11000.0},
		},
	}
}

func newTestAssembler(source Source) *Assembler {
	return NewAssembler(source, Options{
		DefaultTaxRate:          DefaultTaxRate,
		RefillEmptyOptionGroups: true,
		Now:                     func() time.Time { return testNow },
	})
}

func findBranch(t *testing.T, cat *Catalog, id uint) BranchCatalog {
	t.Helper()
	for _, b := range cat.Branches {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("branch %d not in catalog", id)
	return BranchCatalog{}
}

func TestAssembler_Assemble(t *testing.T) {
	assembler := newTestAssembler(newTestSource())

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.Equal(t, "burger-house", cat.Restaurant.Slug)
	assert.Len(t, cat.Categories, 2)
	require.Len(t, cat.Products, 2)
	assert.Equal(t, 7.0, cat.Products[0].TaxRate)
	assert.Equal(t, 107000.0, cat.Products[0].PriceWithTax)
	require.Len(t, cat.Combos, 1)
	assert.Equal(t, 12840.0, cat.Combos[0].PriceWithTax)

	require.Len(t, cat.Branches, 2)
	assert.Equal(t, uint(10), cat.Branches[0].ID)
	assert.Equal(t, uint(20), cat.Branches[1].ID)

	t.Run("Branch with overrides", func(t *testing.T) {
		b := findBranch(t, cat, 10)

		require.Len(t, b.Categories, 1)
		assert.Equal(t, uint(100), b.Categories[0].ID)

		burger := b.Products[0]
		assert.Equal(t, model.PriceModeOverride, burger.PriceMode)
		assert.Equal(t, 100000.0, burger.ProductBasePrice)
		assert.Equal(t, 90000.0, burger.BasePrice)
		assert.Equal(t, 96300.0, burger.PriceWithTax)
		require.NotNil(t, burger.BranchProductID)
		assert.Equal(t, uint(44), *burger.BranchProductID)
		assert.Equal(t, 30, *burger.Inventory.Quantity)

		fries := b.Products[1]
		assert.Equal(t, 5.0, fries.TaxRate)
		assert.Equal(t, 5250.0, fries.PriceWithTax)
		require.Len(t, fries.Options, 1)
		require.Len(t, fries.Options[0].Items, 2)
		assert.Equal(t, 500.0, fries.Options[0].Items[0].EffectivePriceDelta)

		require.Len(t, b.Combos, 1)
		assert.Equal(t, 11000.0, b.Combos[0].BasePrice)
		assert.Equal(t, 11770.0, b.Combos[0].PriceWithTax)
	})

	t.Run("Branch inheriting", func(t *testing.T) {
		b := findBranch(t, cat, 20)

		assert.NotNil(t, b.Categories)
		assert.Empty(t, b.Categories)

		burger := b.Products[0]
		assert.Equal(t, model.PriceModeInherit, burger.PriceMode)
		assert.Nil(t, burger.BranchProductID)
		assert.Nil(t, burger.Assignment.ID)
		assert.Equal(t, 100000.0, burger.BasePrice)
		assert.Equal(t, 10.0, burger.TaxRate)
		assert.Equal(t, 110000.0, burger.PriceWithTax)

		fries := b.Products[1]
		require.Len(t, fries.Options, 1)
		require.Len(t, fries.Options[0].Items, 1)
		assert.Equal(t, uint(51), fries.Options[0].Items[0].ID)

		assert.NotNil(t, b.Combos)
		assert.Empty(t, b.Combos)
	})
}

func TestAssembler_BranchProductTaxFetchIncludesCombos(t *testing.T) {
	source := newTestSource()
	assembler := newTestAssembler(source)

	_, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{1, 2, 300, 301}, source.taxRequests[model.TaxScopeBranchProduct])
	assert.ElementsMatch(t, []uint{10, 20}, source.taxRequests[model.TaxScopeBranch])
}

func TestAssembler_BranchFilter(t *testing.T) {
	assembler := newTestAssembler(newTestSource())
	branchID := uint(10)

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1, BranchID: &branchID})
	require.NoError(t, err)

	require.Len(t, cat.Branches, 1)
	assert.Equal(t, uint(10), cat.Branches[0].ID)
	require.Len(t, cat.Categories, 1)
	assert.Equal(t, uint(100), cat.Categories[0].ID)

	unknown := uint(999)
	cat, err = assembler.Assemble(context.Background(), Request{RestaurantID: 1, BranchID: &unknown})
	require.NoError(t, err)
	assert.NotNil(t, cat.Branches)
	assert.Empty(t, cat.Branches)
}

func TestAssembler_ProductFilter(t *testing.T) {
	assembler := newTestAssembler(newTestSource())

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1, Search: "fries"})
	require.NoError(t, err)

	require.Len(t, cat.Products, 1)
	assert.Equal(t, uint(2), cat.Products[0].ID)
	for _, b := range cat.Branches {
		assert.Len(t, b.Products, 1)
	}
}

func TestAssembler_MissingRestaurant(t *testing.T) {
	source := newTestSource()
	assembler := newTestAssembler(source)

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 404})
	assert.NoError(t, err)
	assert.Nil(t, cat)

	cat, err = assembler.Assemble(context.Background(), Request{RestaurantID: 0})
	assert.NoError(t, err)
	assert.Nil(t, cat)
	assert.Equal(t, 1, source.productCalls)
}

func TestAssembler_EmptyRestaurant(t *testing.T) {
	source := &fakeSource{restaurants: []model.Restaurant{{ID: 1, Name: "Empty", IsActive: true}}}
	assembler := newTestAssembler(source)

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.NotNil(t, cat.Categories)
	assert.NotNil(t, cat.Products)
	assert.NotNil(t, cat.Combos)
	assert.NotNil(t, cat.Branches)
	assert.Empty(t, cat.Branches)
}

func TestAssembler_SourceError(t *testing.T) {
	source := newTestSource()
	source.failProducts = errors.New("connection refused")
	assembler := newTestAssembler(source)

	cat, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
	assert.Nil(t, cat)
}

func TestAssembler_Idempotent(t *testing.T) {
	assembler := newTestAssembler(newTestSource())

	first, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)
	second, err := assembler.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembler_RefillOption(t *testing.T) {
	source := newTestSource()
	source.overrides = append(source.overrides, RawRow{"id": int64(9), "branch_id": int64(20), "item_id": int64(51), "is_visible": "false"})

	refill := newTestAssembler(source)
	cat, err := refill.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)
	group := findBranch(t, cat, 20).Products[1].Options[0]
	assert.True(t, group.Refilled)
	assert.Len(t, group.Items, 2)

	noRefill := NewAssembler(source, Options{DefaultTaxRate: DefaultTaxRate, Now: func() time.Time { return testNow }})
	cat, err = noRefill.Assemble(context.Background(), Request{RestaurantID: 1})
	require.NoError(t, err)
	group = findBranch(t, cat, 20).Products[1].Options[0]
	assert.False(t, group.Refilled)
	assert.Empty(t, group.Items)
}

func TestAssembler_AssembleAll(t *testing.T) {
	source := newTestSource()
	source.restaurants = append(source.restaurants, model.Restaurant{ID: 2, Name: "Noodle Bar", IsActive: true})
	source.branches = append(source.branches, model.Branch{ID: 30, RestaurantID: 2, Name: "Main", IsActive: true})
	assembler := newTestAssembler(source)

	catalogs, err := assembler.AssembleAll(context.Background(), ListRequest{})
	require.NoError(t, err)

	require.Len(t, catalogs, 2)
	assert.Equal(t, uint(1), catalogs[0].Restaurant.ID)
	assert.Equal(t, uint(2), catalogs[1].Restaurant.ID)
	assert.Len(t, catalogs[1].Branches, 1)
	assert.Empty(t, catalogs[1].Products)
}
