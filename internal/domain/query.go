package domain

import "strings"

// AllCategories is the sentinel category meaning "no category filter".
const AllCategories = "All"

// DefaultPageSize is the number of products per page in paginated mode.
const DefaultPageSize = 12

type SortKey string

const (
	SortNone   SortKey = "none"
	SortPrice  SortKey = "price"
	SortRating SortKey = "rating"
	SortTitle  SortKey = "title"
	SortStock  SortKey = "stock"
)

var SortKeys = []SortKey{SortNone, SortPrice, SortRating, SortTitle, SortStock}

// ParseSortKey accepts the enumerated keys case-insensitively; "" means none.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	if s == "name" {
		return SortTitle, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortNone, ErrInvalidQuery
}

// Numeric reports whether the key compares as a number.
func (k SortKey) Numeric() bool {
	return k == SortPrice || k == SortRating || k == SortStock
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	}
	return SortAsc, ErrInvalidQuery
}

// Strategy names the retrieval path that produced a ResultPage.
type Strategy string

const (
	StrategySearch   Strategy = "search"
	StrategyCategory Strategy = "category"
	StrategyPaged    Strategy = "paged"
)

type QueryState struct {
	SearchTerm    string        `json:"searchTerm"`
	Category      string        `json:"category"`
	SortKey       SortKey       `json:"sortKey"`
	SortDirection SortDirection `json:"sortDirection"`
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
}

// NewQueryState returns the initial state: no search, all categories, page 1.
func NewQueryState(pageSize int) QueryState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return QueryState{
		Category:      AllCategories,
		SortKey:       SortNone,
		SortDirection: SortAsc,
		Page:          1,
		PageSize:      pageSize,
	}
}

func (q QueryState) SearchActive() bool {
	return strings.TrimSpace(q.SearchTerm) != ""
}

func (q QueryState) CategoryActive() bool {
	return q.Category != "" && q.Category != AllCategories
}

// Strategy returns the retrieval path authoritative for this state.
// Search wins over category; neither means the paginated listing.
func (q QueryState) Strategy() Strategy {
	switch {
	case q.SearchActive():
		return StrategySearch
	case q.CategoryActive():
		return StrategyCategory
	default:
		return StrategyPaged
	}
}

// Skip is the remote offset for the paginated listing.
func (q QueryState) Skip() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// ResultPage is one fully-replacing snapshot of catalog items.
type ResultPage struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Strategy Strategy  `json:"strategy"`
	// Fallback is set when local filtering of the cached full set produced
	// Items. Search and category fallbacks set Total to len(Items); the paged
	// fallback sets it to the size of the full set so page counts still work.
	Fallback bool `json:"fallback"`
}

// CatalogView is what the view layer reads: the last applied ResultPage plus
// loading/error state and pagination controls.
type CatalogView struct {
	Query          QueryState `json:"query"`
	Items          []Product  `json:"items"`
	Total          int        `json:"total"`
	Strategy       Strategy   `json:"strategy"`
	Fallback       bool       `json:"fallback"`
	Loading        bool       `json:"loading"`
	Error          string     `json:"error,omitempty"`
	TotalPages     int        `json:"totalPages"`
	PageWindow     []int      `json:"pageWindow"`
	ShowPagination bool       `json:"showPagination"`
	Version        uint64     `json:"version"`
}
