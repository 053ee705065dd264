package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// RawRow is an override row read as a column map. Older migrations and imports
// left the override tables with differently spelled columns, so these rows are
// normalized here and nowhere else.
type RawRow = map[string]interface{}

// OptionOverride is the canonical form of a branch or branch-product scoped
// option group/item override.
type OptionOverride struct {
	ID              uint
	BranchID        *uint
	BranchProductID *uint
	TargetType      model.OverrideTarget
	TargetID        uint
	IsActive        *bool
	IsAvailable     *bool
	IsVisible       *bool
	PriceDelta      *float64 // nil reverts to the item's base delta
	MinSelect       *int
	MaxSelect       *int
	IsRequired      *bool
	DisplayOrder    *int
}

// BranchComboOverride is the canonical form of a branch_combos row.
type BranchComboOverride struct {
	ID          uint
	BranchID    uint
	ComboID     uint
	BasePrice   *float64
	IsAvailable *bool
	IsVisible   *bool
}

var (
	overrideIDKeys          = []string{"id", "override_id"}
	overrideBranchKeys      = []string{"branch_id", "store_id"}
	overrideBPKeys          = []string{"branch_product_id", "branch_menu_id", "bp_id"}
	overrideTargetTypeKeys  = []string{"target_type", "type", "kind", "scope"}
	overrideTargetIDKeys    = []string{"target_id"}
	overrideGroupIDKeys     = []string{"group_id", "option_group_id"}
	overrideItemIDKeys      = []string{"item_id", "option_item_id", "option_id"}
	overrideActiveKeys      = []string{"is_active", "active", "enabled", "is_enabled"}
	overrideAvailableKeys   = []string{"is_available", "available", "in_stock"}
	overrideVisibleKeys     = []string{"is_visible", "visible", "show", "is_shown"}
	overridePriceDeltaKeys  = []string{"price_delta_override", "price_delta", "extra_price_override", "extra_price", "price_adjustment", "additional_price"}
	overrideMinSelectKeys   = []string{"min_select", "min_select_override", "min", "min_choices"}
	overrideMaxSelectKeys   = []string{"max_select", "max_select_override", "max", "max_choices"}
	overrideRequiredKeys    = []string{"is_required", "required", "is_required_override"}
	overrideDisplayKeys     = []string{"display_order", "sort_order", "position"}
	comboIDKeys             = []string{"combo_id", "set_id", "bundle_id"}
	comboBasePriceKeys      = []string{"base_price_override", "price_override", "base_price", "price"}
)

// NormalizeOptionOverride maps a raw override row onto OptionOverride. The
// second result is false when the row names no usable target; such rows are
// orphaned data and callers drop them.
func NormalizeOptionOverride(row RawRow) (OptionOverride, bool) {
	fields := foldKeys(row)

	o := OptionOverride{
		BranchID:        nullableID(lookup(fields, overrideBranchKeys...)),
		BranchProductID: nullableID(lookup(fields, overrideBPKeys...)),
		IsActive:        TriBool(lookup(fields, overrideActiveKeys...)),
		IsAvailable:     TriBool(lookup(fields, overrideAvailableKeys...)),
		IsVisible:       TriBool(lookup(fields, overrideVisibleKeys...)),
		PriceDelta:      NullableFloat(lookup(fields, overridePriceDeltaKeys...)),
		MinSelect:       NullableInt(lookup(fields, overrideMinSelectKeys...)),
		MaxSelect:       NullableInt(lookup(fields, overrideMaxSelectKeys...)),
		IsRequired:      TriBool(lookup(fields, overrideRequiredKeys...)),
		DisplayOrder:    NullableInt(lookup(fields, overrideDisplayKeys...)),
	}
	if id := nullableID(lookup(fields, overrideIDKeys...)); id != nil {
		o.ID = *id
	}

	switch strings.ToLower(toString(lookup(fields, overrideTargetTypeKeys...))) {
	case "group", "option_group", "optiongroup":
		o.TargetType = model.OverrideTargetGroup
	case "item", "option_item", "optionitem", "option":
		o.TargetType = model.OverrideTargetItem
	}

	if id := nullableID(lookup(fields, overrideTargetIDKeys...)); id != nil {
		o.TargetID = *id
	}

	// Legacy rows carry the target in a typed column instead of target_type/target_id.
	if o.TargetType == "" || o.TargetID == 0 {
		if id := nullableID(lookup(fields, overrideItemIDKeys...)); id != nil {
			o.TargetType, o.TargetID = model.OverrideTargetItem, *id
		} else if id := nullableID(lookup(fields, overrideGroupIDKeys...)); id != nil {
			o.TargetType, o.TargetID = model.OverrideTargetGroup, *id
		}
	}

	if o.TargetType == "" || o.TargetID == 0 {
		return OptionOverride{}, false
	}
	if o.BranchID == nil && o.BranchProductID == nil {
		return OptionOverride{}, false
	}
	return o, true
}

// NormalizeOptionOverrides normalizes a batch, dropping unusable rows.
func NormalizeOptionOverrides(rows []RawRow) []OptionOverride {
	out := make([]OptionOverride, 0, len(rows))
	for _, row := range rows {
		if o, ok := NormalizeOptionOverride(row); ok {
			out = append(out, o)
		}
	}
	return out
}

// NormalizeBranchCombo maps a raw branch_combos row onto BranchComboOverride.
func NormalizeBranchCombo(row RawRow) (BranchComboOverride, bool) {
	fields := foldKeys(row)

	branchID := nullableID(lookup(fields, overrideBranchKeys...))
	comboID := nullableID(lookup(fields, comboIDKeys...))
	if branchID == nil || comboID == nil {
		return BranchComboOverride{}, false
	}

	bc := BranchComboOverride{
		BranchID:    *branchID,
		ComboID:     *comboID,
		BasePrice:   NullableFloat(lookup(fields, comboBasePriceKeys...)),
		IsAvailable: TriBool(lookup(fields, overrideAvailableKeys...)),
		IsVisible:   TriBool(lookup(fields, overrideVisibleKeys...)),
	}
	if id := nullableID(lookup(fields, overrideIDKeys...)); id != nil {
		bc.ID = *id
	}
	return bc, true
}

// NormalizeBranchCombos normalizes a batch, dropping unusable rows.
func NormalizeBranchCombos(rows []RawRow) []BranchComboOverride {
	out := make([]BranchComboOverride, 0, len(rows))
	for _, row := range rows {
		if bc, ok := NormalizeBranchCombo(row); ok {
			out = append(out, bc)
		}
	}
	return out
}

// TriBool coerces v into an inherit/true/false value. nil, empty and
// unrecognised values all mean inherit.
func TriBool(v interface{}) *bool {
	var b bool
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		b = t
	case *bool:
		if t == nil {
			return nil
		}
		b = *t
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, ok := toFloat(t)
		if !ok || (f != 0 && f != 1) {
			return nil
		}
		b = f == 1
	case []byte:
		return TriBool(string(t))
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "t", "1", "y", "yes":
			b = true
		case "false", "f", "0", "n", "no":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

// NullableFloat coerces v into a finite number, or nil when it is missing or
// does not parse.
func NullableFloat(v interface{}) *float64 {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// NullableInt coerces v into an int, or nil. Fractional values truncate and
// values outside the int32 range are treated as missing.
func NullableInt(v interface{}) *int {
	f, ok := toFloat(v)
	if !ok || f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// SafeAmount keeps a money amount usable: NaN and infinities become 0.
func SafeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nullableID(v interface{}) *uint {
	f, ok := toFloat(v)
	if !ok || f < 1 || f > math.MaxUint32 {
		return nil
	}
	id := uint(f)
	return &id
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case *float64:
		if t == nil {
			return 0, false
		}
		f = *t
	case *int:
		if t == nil {
			return 0, false
		}
		f = float64(*t)
	case *uint:
		if t == nil {
			return 0, false
		}
		f = float64(*t)
	case []byte:
		return toFloat(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case model.OverrideTarget:
		return string(t)
	}
	return ""
}

// foldKeys indexes row by a case and separator insensitive key, so that
// "priceDeltaOverride", "PriceDeltaOverride" and "price_delta_override" all
// land on the same entry. When several non-nil spellings collide, the
// lower_snake spelling wins, then the smallest key.
func foldKeys(row RawRow) map[string]interface{} {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := isSnakeKey(keys[i]), isSnakeKey(keys[j])
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})

	fields := make(map[string]interface{}, len(row))
	for _, k := range keys {
		fk := foldKey(k)
		if existing, ok := fields[fk]; ok && existing != nil {
			continue
		}
		fields[fk] = row[k]
	}
	return fields
}

func isSnakeKey(k string) bool {
	return k == strings.ToLower(k) && !strings.ContainsAny(k, "- ")
}

func foldKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range strings.ToLower(k) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lookup returns the first non-nil value among the aliases, in order.
func lookup(fields map[string]interface{}, aliases ...string) interface{} {
	for _, alias := range aliases {
		if v, ok := fields[foldKey(alias)]; ok && v != nil {
			return v
		}
	}
	return nil
}
