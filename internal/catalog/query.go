package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultPageSize = 3

// sentinel value clients send for "no filter"
const filterAll = "all"

type SortKey string

const (
	SortFeatured SortKey = "featured"
	SortLowest   SortKey = "lowest"
	SortHighest  SortKey = "highest"
	SortTopRated SortKey = "toprated"
	SortNewest   SortKey = "newest"
)

// SearchRequest carries the raw, untyped request parameters.
type SearchRequest struct {
	Query    string
	Category string
	Price    string // "min-max"
	Rating   string
	Order    string
	Page     string
	PageSize string
}

// SearchOptions is the typed query the store executes. A nil filter field
// means the dimension is unconstrained; present filters combine with AND.
type SearchOptions struct {
	Name      *string
	Category  *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      SortKey
	Page      int
	PageSize  int
}

type SearchResult struct {
	Items      []Product `json:"products"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// Options translates raw request parameters into typed query options.
// Absent values and the "all" sentinel both mean "no filter".
func (r SearchRequest) Options() (SearchOptions, error) {
	opts := SearchOptions{
		Sort:     SortKey(r.Order),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if r.Query != "" && r.Query != filterAll {
		q := r.Query
		opts.Name = &q
	}

	if r.Category != "" && r.Category != filterAll {
		c := r.Category
		opts.Category = &c
	}

	if r.Price != "" && r.Price != filterAll {
		parts := strings.SplitN(r.Price, "-", 2)
		if len(parts) != 2 {
			return SearchOptions{}, fmt.Errorf("%w: price range must be \"min-max\", got %q", ErrInvalidQuery, r.Price)
		}
		min, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return SearchOptions{}, fmt.Errorf("%w: bad price lower bound %q", ErrInvalidQuery, parts[0])
		}
		max, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return SearchOptions{}, fmt.Errorf("%w: bad price upper bound %q", ErrInvalidQuery, parts[1])
		}
		opts.MinPrice = &min
		opts.MaxPrice = &max
	}

	if r.Rating != "" && r.Rating != filterAll {
		min, err := strconv.ParseFloat(r.Rating, 64)
		if err != nil {
			return SearchOptions{}, fmt.Errorf("%w: bad rating %q", ErrInvalidQuery, r.Rating)
		}
		opts.MinRating = &min
	}

	if r.Page != "" {
		page, err := strconv.Atoi(r.Page)
		if err != nil {
			return SearchOptions{}, fmt.Errorf("%w: bad page %q", ErrInvalidQuery, r.Page)
		}
		if page < 1 {
			page = 1
		}
		opts.Page = page
	}

	// An explicit non-positive page size is a caller error, not something
	// to clamp: clamping upward would silently change result windows and
	// clamping to "no limit" would return unbounded sets.
	if r.PageSize != "" {
		size, err := strconv.Atoi(r.PageSize)
		if err != nil || size <= 0 {
			return SearchOptions{}, fmt.Errorf("%w: page size must be a positive integer, got %q", ErrInvalidQuery, r.PageSize)
		}
		opts.PageSize = size
	}

	return opts, nil
}

func (o SearchOptions) Offset() int {
	return o.PageSize * (o.Page - 1)
}

// whereClause builds the filter conjunction with positional args starting
// at $1. The count query reuses the same clause so totals always match
// the filtered set.
func (o SearchOptions) whereClause() (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")

	args := []any{}
	argIndex := 1

	if o.Name != nil {
		sb.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argIndex))
		args = append(args, "%"+*o.Name+"%")
		argIndex++
	}

	if o.Category != nil {
		sb.WriteString(fmt.Sprintf(" AND category = $%d", argIndex))
		args = append(args, *o.Category)
		argIndex++
	}

	if o.MinPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND price >= $%d", argIndex))
		args = append(args, *o.MinPrice)
		argIndex++
	}

	if o.MaxPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND price <= $%d", argIndex))
		args = append(args, *o.MaxPrice)
		argIndex++
	}

	if o.MinRating != nil {
		sb.WriteString(fmt.Sprintf(" AND rating >= $%d", argIndex))
		args = append(args, *o.MinRating)
		argIndex++
	}

	return sb.String(), args
}

// orderBy maps the sort key to an ordering. Every ordering carries a
// secondary id sort so pages stay stable across identical values.
func (o SearchOptions) orderBy() string {
	switch o.Sort {
	case SortFeatured:
		return "featured DESC, id DESC"
	case SortLowest:
		return "price ASC, id DESC"
	case SortHighest:
		return "price DESC, id DESC"
	case SortTopRated:
		return "rating DESC, id DESC"
	case SortNewest:
		return "created_at DESC, id DESC"
	default:
		return "id DESC"
	}
}

// TotalPages reports ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
