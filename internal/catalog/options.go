package catalog

import (
	"sort"

	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// OptionGroupInput is one option group attached to a product, together with
// the product-level link record (nil when the group is used as-is).
type OptionGroupInput struct {
	Group model.OptionGroup
	Link  *model.ProductOptionGroup
}

// GroupOptionInputs turns product_option_groups rows into per-product inputs,
// keeping the order the rows came in. Links whose group was not loaded
// (deleted groups) are skipped.
func GroupOptionInputs(links []model.ProductOptionGroup) map[uint][]OptionGroupInput {
	byProduct := make(map[uint][]OptionGroupInput)
	for i := range links {
		link := links[i]
		group := link.Group
		if group.ID == 0 {
			continue
		}
		byProduct[link.ProductID] = append(byProduct[link.ProductID], OptionGroupInput{
			Group: group,
			Link:  &link,
		})
	}
	return byProduct
}

type overrideKey struct {
	target   model.OverrideTarget
	targetID uint
	byBP     bool
	scopeID  uint
}

// OverrideIndex finds the override of a group or item for a branch or a
// branch-product. When several rows share a key, the one with the highest ID
// wins.
type OverrideIndex struct {
	rows map[overrideKey]OptionOverride
}

// NewOverrideIndex indexes overrides by target and scope. A row keyed by
// branch_product_id is indexed only under that key.
func NewOverrideIndex(overrides []OptionOverride) OverrideIndex {
	idx := OverrideIndex{rows: make(map[overrideKey]OptionOverride, len(overrides))}
	for _, o := range overrides {
		var key overrideKey
		switch {
		case o.BranchProductID != nil:
			key = overrideKey{target: o.TargetType, targetID: o.TargetID, byBP: true, scopeID: *o.BranchProductID}
		case o.BranchID != nil:
			key = overrideKey{target: o.TargetType, targetID: o.TargetID, scopeID: *o.BranchID}
		default:
			continue
		}
		if existing, ok := idx.rows[key]; ok && existing.ID > o.ID {
			continue
		}
		idx.rows[key] = o
	}
	return idx
}

// Len reports how many overrides are indexed.
func (idx OverrideIndex) Len() int {
	return len(idx.rows)
}

// find returns the applicable override: branch-product keyed first, then
// branch keyed.
func (idx OverrideIndex) find(target model.OverrideTarget, targetID, branchID uint, branchProductID *uint) *OptionOverride {
	if len(idx.rows) == 0 {
		return nil
	}
	if branchProductID != nil {
		if o, ok := idx.rows[overrideKey{target: target, targetID: targetID, byBP: true, scopeID: *branchProductID}]; ok {
			return &o
		}
	}
	if branchID != 0 {
		if o, ok := idx.rows[overrideKey{target: target, targetID: targetID, scopeID: branchID}]; ok {
			return &o
		}
	}
	return nil
}

// OptionOverrideResolver merges a product's option groups with branch and
// branch-product overrides.
type OptionOverrideResolver struct {
	// RefillEmptyGroups re-inflates a group whose items were all filtered
	// out by overrides, using the unmodified base items.
	RefillEmptyGroups bool
}

func NewOptionOverrideResolver(refillEmptyGroups bool) *OptionOverrideResolver {
	return &OptionOverrideResolver{RefillEmptyGroups: refillEmptyGroups}
}

// Base resolves groups with no branch overrides at all.
func (r *OptionOverrideResolver) Base(groups []OptionGroupInput) []OptionGroupView {
	return r.Apply(groups, OverrideIndex{}, 0, nil)
}

// Apply resolves groups for branchID and, when set, branchProductID. The
// result is never nil.
func (r *OptionOverrideResolver) Apply(groups []OptionGroupInput, overrides OverrideIndex, branchID uint, branchProductID *uint) []OptionGroupView {
	out := make([]OptionGroupView, 0, len(groups))

	for _, in := range groups {
		override := overrides.find(model.OverrideTargetGroup, in.Group.ID, branchID, branchProductID)
		if override != nil && isFalse(override.IsActive) {
			continue
		}

		view := resolveGroupSettings(in, override)

		baseItems := sortedItems(in.Group.Items)
		view.Items = make([]OptionItemView, 0, len(baseItems))
		for _, item := range baseItems {
			io := overrides.find(model.OverrideTargetItem, item.ID, branchID, branchProductID)
			if io != nil && (isFalse(io.IsActive) || isFalse(io.IsAvailable) || isFalse(io.IsVisible)) {
				continue
			}
			delta := SafeAmount(item.PriceDelta)
			effective := delta
			if io != nil && io.PriceDelta != nil {
				effective = SafeAmount(*io.PriceDelta)
			}
			view.Items = append(view.Items, OptionItemView{
				ID:                  item.ID,
				Name:                item.Name,
				PriceDelta:          delta,
				EffectivePriceDelta: effective,
				DisplayOrder:        item.DisplayOrder,
			})
		}

		if len(view.Items) == 0 && len(baseItems) > 0 && r.RefillEmptyGroups {
			view.Items = baseItemViews(baseItems)
			view.Refilled = true
		}

		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// resolveGroupSettings picks min/max/required/display order from the
// override, then the group, then the product link, then the defaults.
func resolveGroupSettings(in OptionGroupInput, override *OptionOverride) OptionGroupView {
	g := in.Group
	var link model.ProductOptionGroup
	if in.Link != nil {
		link = *in.Link
	}
	var o OptionOverride
	if override != nil {
		o = *override
	}

	selection := g.SelectionType
	if selection == "" {
		selection = model.SelectionSingle
	}

	var defaultMax *int
	if selection == model.SelectionSingle {
		one := 1
		defaultMax = &one
	}

	return OptionGroupView{
		ID:            g.ID,
		Name:          g.Name,
		SelectionType: selection,
		MinSelect:     derefInt(firstInt(o.MinSelect, g.MinSelect, link.MinSelect), 0),
		MaxSelect:     firstInt(o.MaxSelect, g.MaxSelect, link.MaxSelect, defaultMax),
		IsRequired:    derefBool(firstBool(o.IsRequired, g.IsRequired, link.IsRequired), false),
		DisplayOrder:  derefInt(firstInt(o.DisplayOrder, g.DisplayOrder, link.DisplayOrder), 0),
	}
}

func sortedItems(items []model.OptionItem) []model.OptionItem {
	sorted := make([]model.OptionItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func baseItemViews(items []model.OptionItem) []OptionItemView {
	views := make([]OptionItemView, 0, len(items))
	for _, item := range items {
		delta := SafeAmount(item.PriceDelta)
		views = append(views, OptionItemView{
			ID:                  item.ID,
			Name:                item.Name,
			PriceDelta:          delta,
			EffectivePriceDelta: delta,
			DisplayOrder:        item.DisplayOrder,
		})
	}
	return views
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			n := *v
			return &n
		}
	}
	return nil
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func derefInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func derefBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
