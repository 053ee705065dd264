package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Request selects the catalog to assemble. Search and CategoryID are passed
// through to the product fetch.
type Request struct {
	RestaurantID uint
	BranchID     *uint
	Search       string
	CategoryID   *uint
}

// ListRequest selects the catalogs of every active restaurant.
type ListRequest struct {
	Search string
}

type Options struct {
	DefaultTaxRate          float64
	RefillEmptyOptionGroups bool
	// Concurrency bounds how many restaurants AssembleAll builds at once.
	Concurrency int
	// Now is used for tax assignment windows. Defaults to time.Now.
	Now func() time.Time
}

// Snapshot is every collection one restaurant's catalog is built from.
type Snapshot struct {
	Restaurant         model.Restaurant
	Branches           []model.Branch
	Categories         []model.Category
	Products           []model.Product
	Combos             []model.Combo
	Assignments        []model.BranchProduct
	RestaurantTaxes    []model.TaxAssignment
	BranchTaxes        []model.TaxAssignment
	ProductTaxes       []model.TaxAssignment
	BranchProductTaxes []model.TaxAssignment
	OptionGroups       []model.ProductOptionGroup
	OptionOverrides    []OptionOverride
	BranchCombos       []BranchComboOverride
}

// Assembler fetches a restaurant's configuration through a Source and
// resolves it into a Catalog.
type Assembler struct {
	source Source
	opts   Options
}

func NewAssembler(source Source, opts Options) *Assembler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Assembler{source: source, opts: opts}
}

// Assemble returns the catalog for req, or nil when the restaurant ID is
// zero or the restaurant does not exist.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Catalog, error) {
	if req.RestaurantID == 0 {
		return nil, nil
	}

	snap, err := a.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return a.Build(snap, req.BranchID), nil
}

// AssembleAll returns the catalogs of every restaurant the source lists, in
// the order listed.
func (a *Assembler) AssembleAll(ctx context.Context, req ListRequest) ([]Catalog, error) {
	restaurants, err := a.source.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	results := make([]*Catalog, len(restaurants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, r := range restaurants {
		i, restaurantID := i, r.ID
		g.Go(func() error {
			cat, err := a.Assemble(gctx, Request{RestaurantID: restaurantID, Search: req.Search})
			if err != nil {
				return fmt.Errorf("restaurant %d: %w", restaurantID, err)
			}
			results[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalogs := make([]Catalog, 0, len(results))
	for _, cat := range results {
		if cat != nil {
			catalogs = append(catalogs, *cat)
		}
	}
	return catalogs, nil
}

// Fetch loads everything needed for req. Fetches that do not depend on each
// other run concurrently; the second phase needs the branch and product IDs
// of the first. A nil snapshot means the restaurant does not exist.
func (a *Assembler) Fetch(ctx context.Context, req Request) (*Snapshot, error) {
	snap := &Snapshot{}
	var restaurant *model.Restaurant
	filter := ProductFilter{Search: req.Search, CategoryID: req.CategoryID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := a.source.GetRestaurant(gctx, req.RestaurantID)
		if err != nil {
			return fmt.Errorf("get restaurant: %w", err)
		}
		restaurant = r
		return nil
	})
	g.Go(func() error {
		branches, err := a.source.ListBranches(gctx, req.RestaurantID)
		if err != nil {
			return fmt.Errorf("list branches: %w", err)
		}
		snap.Branches = branches
		return nil
	})
	g.Go(func() error {
		categories, err := a.source.ListCategories(gctx, req.RestaurantID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		snap.Categories = categories
		return nil
	})
	g.Go(func() error {
		products, err := a.source.ListProducts(gctx, req.RestaurantID, filter)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		combos, err := a.source.ListCombos(gctx, req.RestaurantID)
		if err != nil {
			return fmt.Errorf("list combos: %w", err)
		}
		snap.Combos = combos
		return nil
	})
	g.Go(func() error {
		taxes, err := a.source.ListTaxAssignments(gctx, model.TaxScopeRestaurant, []uint{req.RestaurantID})
		if err != nil {
			return fmt.Errorf("list restaurant taxes: %w", err)
		}
		snap.RestaurantTaxes = taxes
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch catalog data", err, map[string]interface{}{
			"restaurant_id": req.RestaurantID,
		})
		return nil, err
	}

	if restaurant == nil {
		logger.Debug("Restaurant not found for catalog", map[string]interface{}{
			"restaurant_id": req.RestaurantID,
		})
		return nil, nil
	}
	snap.Restaurant = *restaurant

	if req.BranchID != nil {
		snap.Branches = filterBranches(snap.Branches, *req.BranchID)
	}

	branchIDs := make([]uint, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		branchIDs = append(branchIDs, b.ID)
	}
	productIDs := make([]uint, 0, len(snap.Products))
	for _, p := range snap.Products {
		productIDs = append(productIDs, p.ID)
	}
	// Branch-product tax rows also price combos, keyed by combo ID.
	taxTargetIDs := append([]uint{}, productIDs...)
	for _, c := range snap.Combos {
		taxTargetIDs = append(taxTargetIDs, c.ID)
	}

	g, gctx = errgroup.WithContext(ctx)
	if len(productIDs) > 0 {
		g.Go(func() error {
			assignments, err := a.source.ListBranchAssignments(gctx, productIDs)
			if err != nil {
				return fmt.Errorf("list branch assignments: %w", err)
			}
			snap.Assignments = assignments
			return nil
		})
		g.Go(func() error {
			taxes, err := a.source.ListTaxAssignments(gctx, model.TaxScopeProduct, productIDs)
			if err != nil {
				return fmt.Errorf("list product taxes: %w", err)
			}
			snap.ProductTaxes = taxes
			return nil
		})
		g.Go(func() error {
			links, err := a.source.ListOptionGroups(gctx, productIDs)
			if err != nil {
				return fmt.Errorf("list option groups: %w", err)
			}
			snap.OptionGroups = links
			return nil
		})
	}
	if len(branchIDs) > 0 {
		g.Go(func() error {
			taxes, err := a.source.ListTaxAssignments(gctx, model.TaxScopeBranch, branchIDs)
			if err != nil {
				return fmt.Errorf("list branch taxes: %w", err)
			}
			snap.BranchTaxes = taxes
			return nil
		})
		g.Go(func() error {
			rows, err := a.source.ListBranchCombos(gctx, branchIDs)
			if err != nil {
				return fmt.Errorf("list branch combos: %w", err)
			}
			snap.BranchCombos = NormalizeBranchCombos(rows)
			return nil
		})
		g.Go(func() error {
			rows, err := a.source.ListBranchOptionOverrides(gctx, branchIDs, productIDs)
			if err != nil {
				return fmt.Errorf("list option overrides: %w", err)
			}
			snap.OptionOverrides = NormalizeOptionOverrides(rows)
			if dropped := len(rows) - len(snap.OptionOverrides); dropped > 0 {
				logger.Debug("Ignoring unusable option override rows", map[string]interface{}{
					"restaurant_id": req.RestaurantID,
					"dropped":       dropped,
				})
			}
			return nil
		})
		if len(taxTargetIDs) > 0 {
			g.Go(func() error {
				taxes, err := a.source.ListTaxAssignments(gctx, model.TaxScopeBranchProduct, taxTargetIDs)
				if err != nil {
					return fmt.Errorf("list branch product taxes: %w", err)
				}
				snap.BranchProductTaxes = taxes
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch branch catalog data", err, map[string]interface{}{
			"restaurant_id": req.RestaurantID,
			"branch_count":  len(branchIDs),
			"product_count": len(productIDs),
		})
		return nil, err
	}

	return snap, nil
}

// Build resolves snap into a catalog. It reads snap only and depends on
// nothing but the assembler options, so the same snapshot always gives the
// same document. With branchID set, top-level categories are limited to the
// ones active and visible at that branch.
func (a *Assembler) Build(snap *Snapshot, branchID *uint) *Catalog {
	taxIdx := BuildTaxIndex(snap.RestaurantTaxes, snap.BranchTaxes, snap.ProductTaxes, snap.BranchProductTaxes, a.opts.Now())
	tax := NewTaxResolver(taxIdx, a.opts.DefaultTaxRate)
	projector := NewBranchProductProjector(
		tax,
		NewOptionOverrideResolver(a.opts.RefillEmptyOptionGroups),
		GroupOptionInputs(snap.OptionGroups),
		NewOverrideIndex(snap.OptionOverrides),
	)
	combos := NewComboOverrideResolver(tax)
	branchCombos := IndexBranchCombos(snap.BranchCombos)
	assignments := indexAssignments(snap.Assignments)

	categories := sortedCategories(snap.Categories)
	products := sortedProducts(snap.Products)
	branches := sortedBranches(snap.Branches)

	cat := &Catalog{
		Restaurant: newRestaurantView(snap.Restaurant),
		Categories: make([]CategoryView, 0, len(categories)),
		Products:   make([]ProductView, 0, len(products)),
		Combos:     combos.Restaurant(snap.Combos),
		Branches:   make([]BranchCatalog, 0, len(branches)),
	}

	for _, c := range categories {
		if branchID == nil || categoryVisibleAt(c, *branchID) {
			cat.Categories = append(cat.Categories, newCategoryView(c))
		}
	}
	for _, p := range products {
		cat.Products = append(cat.Products, projector.ProjectBase(p))
	}

	for _, b := range branches {
		bc := BranchCatalog{
			BranchView: newBranchView(b),
			Categories: make([]CategoryView, 0, len(categories)),
			Products:   make([]BranchProductView, 0, len(products)),
			Combos:     combos.Resolve(snap.Combos, branchCombos[b.ID], b.ID),
		}
		for _, c := range categories {
			if categoryVisibleAt(c, b.ID) {
				bc.Categories = append(bc.Categories, newCategoryView(c))
			}
		}
		for _, p := range products {
			bc.Products = append(bc.Products, projector.Project(p, assignments[b.ID][p.ID], b.ID))
		}
		cat.Branches = append(cat.Branches, bc)
	}

	return cat
}

// indexAssignments keys assignments by branch, then product. Later rows for
// the same pair replace earlier ones only when their ID is higher.
func indexAssignments(rows []model.BranchProduct) map[uint]map[uint]*model.BranchProduct {
	idx := make(map[uint]map[uint]*model.BranchProduct)
	for i := range rows {
		row := rows[i]
		byProduct, ok := idx[row.BranchID]
		if !ok {
			byProduct = make(map[uint]*model.BranchProduct)
			idx[row.BranchID] = byProduct
		}
		if existing, ok := byProduct[row.ProductID]; ok && existing.ID > row.ID {
			continue
		}
		byProduct[row.ProductID] = &row
	}
	return idx
}

func categoryVisibleAt(c model.Category, branchID uint) bool {
	for _, cb := range c.Branches {
		if cb.BranchID == branchID && cb.IsActive && cb.IsVisible {
			return true
		}
	}
	return false
}

func filterBranches(branches []model.Branch, branchID uint) []model.Branch {
	out := make([]model.Branch, 0, 1)
	for _, b := range branches {
		if b.ID == branchID {
			out = append(out, b)
		}
	}
	return out
}

func sortedCategories(categories []model.Category) []model.Category {
	sorted := make([]model.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func sortedProducts(products []model.Product) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func sortedBranches(branches []model.Branch) []model.Branch {
	sorted := make([]model.Branch, len(branches))
	copy(sorted, branches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
