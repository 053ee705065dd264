package catalog

import (
	"sort"

	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// ComboOverrideResolver applies branch_combos rows to a restaurant's combos.
// Unlike products, a combo is shown at a branch only when the branch has a
// row for it.
type ComboOverrideResolver struct {
	tax *TaxResolver
}

func NewComboOverrideResolver(tax *TaxResolver) *ComboOverrideResolver {
	return &ComboOverrideResolver{tax: tax}
}

// IndexBranchCombos groups rows by branch, then combo. The highest row ID wins
// for duplicate (branch, combo) pairs.
func IndexBranchCombos(rows []BranchComboOverride) map[uint]map[uint]BranchComboOverride {
	idx := make(map[uint]map[uint]BranchComboOverride)
	for _, bc := range rows {
		byCombo, ok := idx[bc.BranchID]
		if !ok {
			byCombo = make(map[uint]BranchComboOverride)
			idx[bc.BranchID] = byCombo
		}
		if existing, ok := byCombo[bc.ComboID]; ok && existing.ID > bc.ID {
			continue
		}
		byCombo[bc.ComboID] = bc
	}
	return idx
}

// Restaurant returns every active combo at its own base price, taxed at the
// restaurant rate.
func (r *ComboOverrideResolver) Restaurant(combos []model.Combo) []ComboView {
	out := make([]ComboView, 0, len(combos))
	rate := r.tax.RestaurantRate()
	for _, c := range sortedCombos(combos) {
		if !c.IsActive {
			continue
		}
		base := SafeAmount(c.BasePrice)
		view := newComboView(c)
		view.BasePrice = base
		view.IsAvailable = true
		view.IsVisible = true
		view.TaxRate = rate
		view.PriceWithTax = PriceWithTax(base, rate)
		out = append(out, view)
	}
	return out
}

// Resolve returns the combos offered at branchID, given that branch's rows
// keyed by combo ID.
func (r *ComboOverrideResolver) Resolve(combos []model.Combo, rows map[uint]BranchComboOverride, branchID uint) []ComboView {
	out := make([]ComboView, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	for _, c := range sortedCombos(combos) {
		if !c.IsActive {
			continue
		}
		row, ok := rows[c.ID]
		if !ok {
			continue
		}

		base := SafeAmount(c.BasePrice)
		if row.BasePrice != nil {
			base = SafeAmount(*row.BasePrice)
		}
		rate := r.tax.Resolve(branchID, c.ID)

		view := newComboView(c)
		if row.ID != 0 {
			id := row.ID
			view.BranchComboID = &id
		}
		view.BasePrice = base
		view.IsAvailable = derefBool(row.IsAvailable, true)
		view.IsVisible = derefBool(row.IsVisible, true)
		view.TaxRate = rate
		view.PriceWithTax = PriceWithTax(base, rate)
		out = append(out, view)
	}
	return out
}

func newComboView(c model.Combo) ComboView {
	groups := make([]model.ComboGroup, len(c.Groups))
	copy(groups, c.Groups)
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].DisplayOrder != groups[j].DisplayOrder {
			return groups[i].DisplayOrder < groups[j].DisplayOrder
		}
		return groups[i].ID < groups[j].ID
	})

	groupViews := make([]ComboGroupView, 0, len(groups))
	for _, g := range groups {
		items := make([]model.ComboGroupItem, len(g.Items))
		copy(items, g.Items)
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].DisplayOrder != items[j].DisplayOrder {
				return items[i].DisplayOrder < items[j].DisplayOrder
			}
			return items[i].ID < items[j].ID
		})

		itemViews := make([]ComboItemView, 0, len(items))
		for _, it := range items {
			itemViews = append(itemViews, ComboItemView{
				ID:           it.ID,
				ProductID:    it.ProductID,
				PriceDelta:   SafeAmount(it.PriceDelta),
				DisplayOrder: it.DisplayOrder,
			})
		}

		groupViews = append(groupViews, ComboGroupView{
			ID:           g.ID,
			Name:         g.Name,
			MinSelect:    g.MinSelect,
			MaxSelect:    g.MaxSelect,
			IsRequired:   g.IsRequired,
			DisplayOrder: g.DisplayOrder,
			Items:        itemViews,
		})
	}

	return ComboView{
		ID:             c.ID,
		RestaurantID:   c.RestaurantID,
		Name:           c.Name,
		Description:    c.Description,
		ImageURL:       c.ImageURL,
		ComboBasePrice: SafeAmount(c.BasePrice),
		DisplayOrder:   c.DisplayOrder,
		Groups:         groupViews,
	}
}

func sortedCombos(combos []model.Combo) []model.Combo {
	sorted := make([]model.Combo, len(combos))
	copy(sorted, combos)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
