package models

import (
	"fmt"
	"strings"
)

// Category is one of the fixed post categories. CategoryAll only appears in filters.
type Category string

const (
	CategoryAll        Category = "All"
	CategoryTechnology Category = "Technology"
	CategoryDesign     Category = "Design"
	CategoryBusiness   Category = "Business"
	CategoryLifestyle  Category = "Lifestyle"
	CategoryTutorial   Category = "Tutorial"
)

// Categories lists the concrete categories in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryDesign,
	CategoryBusiness,
	CategoryLifestyle,
	CategoryTutorial,
}

// ParseCategory accepts any casing and returns the canonical value.
// "all" and the empty string both map to CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// IsFilterOnly reports whether c is the "All" sentinel.
func (c Category) IsFilterOnly() bool { return c == CategoryAll }

// IsConcrete reports whether c can be assigned to a post.
func (c Category) IsConcrete() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
