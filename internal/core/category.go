package core

import "strings"

// Category is the enumerated tag on an expense.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryOther         Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryBills,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// IsKnown reports whether c (case-insensitive) is one of Categories.
func (c Category) IsKnown() bool {
	n := Category(strings.ToLower(strings.TrimSpace(string(c))))
	for _, k := range Categories {
		if n == k {
			return true
		}
	}
	return false
}

// Normalize maps c to its display bucket: the lowercased category when
// known, CategoryOther otherwise. Stored values are never rewritten.
func (c Category) Normalize() Category {
	if !c.IsKnown() {
		return CategoryOther
	}
	return Category(strings.ToLower(strings.TrimSpace(string(c))))
}

// CategoryMeta is the display metadata for a category.
type CategoryMeta struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// CategoryCatalog maps categories to display metadata. It is built once and
// passed to every presenter so labels and colors cannot drift.
type CategoryCatalog struct {
	byID  map[Category]CategoryMeta
	order []Category
}

// NewCategoryCatalog builds a catalog. The "other" entry must be present
// since it is the fallback for unknown categories.
func NewCategoryCatalog(metas ...CategoryMeta) *CategoryCatalog {
	c := &CategoryCatalog{byID: make(map[Category]CategoryMeta, len(metas))}
	for _, m := range metas {
		if _, dup := c.byID[m.ID]; !dup {
			c.order = append(c.order, m.ID)
		}
		c.byID[m.ID] = m
	}
	if _, ok := c.byID[CategoryOther]; !ok {
		c.byID[CategoryOther] = CategoryMeta{ID: CategoryOther, Label: "Other", Icon: "💸", Color: "#636E72"}
		c.order = append(c.order, CategoryOther)
	}
	return c
}

// DefaultCatalog returns the stock labels, icons and colors.
func DefaultCatalog() *CategoryCatalog {
	return NewCategoryCatalog(
		CategoryMeta{ID: CategoryFood, Label: "Food", Icon: "🍔", Color: "#FF9F43"},
		CategoryMeta{ID: CategoryTransport, Label: "Transport", Icon: "🚗", Color: "#54A0FF"},
		CategoryMeta{ID: CategoryEntertainment, Label: "Fun", Icon: "🎉", Color: "#FD79A8"},
		CategoryMeta{ID: CategoryBills, Label: "Bills", Icon: "💡", Color: "#55EFC4"},
		CategoryMeta{ID: CategoryShopping, Label: "Shopping", Icon: "🛍️", Color: "#A29BFE"},
		CategoryMeta{ID: CategoryHealth, Label: "Health", Icon: "💊", Color: "#FF7675"},
		CategoryMeta{ID: CategoryEducation, Label: "Education", Icon: "📚", Color: "#0984E3"},
		CategoryMeta{ID: CategoryOther, Label: "Other", Icon: "💸", Color: "#636E72"},
	)
}

// Lookup returns the metadata for c, falling back to "other".
func (c *CategoryCatalog) Lookup(cat Category) CategoryMeta {
	if m, ok := c.byID[cat.Normalize()]; ok {
		return m
	}
	return c.byID[CategoryOther]
}

// All returns the catalog entries in insertion order.
func (c *CategoryCatalog) All() []CategoryMeta {
	out := make([]CategoryMeta, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
