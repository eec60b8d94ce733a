package usecase

import (
	"sort"
	"strings"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/utils"
)

// SortProducts returns a sorted copy of items. Numeric keys compare as numbers,
// everything else as lowercased strings. Equal keys keep their input order.
func SortProducts(items []domain.Product, key domain.SortKey, dir domain.SortDirection) []domain.Product {
	out := make([]domain.Product, len(items))
	copy(out, items)
	if key == "" || key == domain.SortNone {
		return out
	}

	less := func(a, b domain.Product) bool {
		if key.Numeric() {
			return numericField(a, key) < numericField(b, key)
		}
		return stringField(a, key) < stringField(b, key)
	}
	if dir == domain.SortDesc {
		asc := less
		less = func(a, b domain.Product) bool { return asc(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func numericField(p domain.Product, key domain.SortKey) float64 {
	switch key {
	case domain.SortPrice:
		return p.Price
	case domain.SortRating:
		return p.Rating
	case domain.SortStock:
		return float64(p.Stock)
	}
	return 0
}

func stringField(p domain.Product, key domain.SortKey) string {
	switch key {
	case domain.SortTitle:
		return strings.ToLower(p.Name)
	}
	return ""
}

// FilterByCategory keeps items whose category slug equals the slug of category.
// Comparing slugs tolerates "Home Decoration" vs "home-decoration".
func FilterByCategory(items []domain.Product, category string) []domain.Product {
	target := utils.Slugify(category)
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if utils.Slugify(p.Category) == target {
			out = append(out, p)
		}
	}
	return out
}

// SearchLocal is the offline search: case-insensitive substring match on name or description.
func SearchLocal(items []domain.Product, term string) []domain.Product {
	term = strings.TrimSpace(term)
	out := make([]domain.Product, 0)
	for _, p := range items {
		if utils.ContainsFold(p.Name, term) || utils.ContainsFold(p.Description, term) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns the page-th slice of size pageSize (1-based page).
func Paginate(items []domain.Product, page, pageSize int) []domain.Product {
	if page < 1 || pageSize < 1 {
		return []domain.Product{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []domain.Product{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage bounds page to [1, totalPages]. With no pages known, page 1 is returned.
func ClampPage(page, totalPages int) int {
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageWindow lists up to 5 page numbers centered on current, clipped to [1, totalPages].
func PageWindow(current, totalPages int) []int {
	window := make([]int, 0, 5)
	for p := current - 2; p <= current+2; p++ {
		if p >= 1 && p <= totalPages {
			window = append(window, p)
		}
	}
	return window
}
