package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go2hand/go2hand/internal/supabase"
)

// productSelect expands the relations every listing query needs alongside
// the product columns.
const productSelect = "*," +
	"seller:users!seller_id(id,username,full_name,avatar_url,seller_rating,total_sales,verified,location,created_at)," +
	"brand:brands(id,name,slug,logo_url)," +
	"category:categories(id,name,slug)," +
	"device_model:device_models(id,model_name)"

// reviewSelect expands the reviewer relation on review rows.
const reviewSelect = "*,reviewer:users!reviewer_id(id,username,full_name)"

const defaultPageSize = 20

// sortOrder maps a sort mode to its column order. Unrecognized modes sort
// newest first.
func sortOrder(mode SortMode) supabase.Order {
	switch mode {
	case SortPriceAsc:
		return supabase.Order{Column: "price"}
	case SortPriceDesc:
		return supabase.Order{Column: "price", Descending: true}
	case SortPopular:
		return supabase.Order{Column: "view_count", Descending: true}
	default:
		return supabase.Order{Column: "created_at", Descending: true}
	}
}

// pageRange computes the inclusive row range for a 1-based page. Page and
// size are clamped to at least 1 before the computation.
func pageRange(page, size int) supabase.RowRange {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	from := (page - 1) * size
	return supabase.RowRange{From: from, To: from + size - 1}
}

// buildListQuery translates a listing filter into a counted select request.
// Category and brand slugs resolve to ids through one lookup each; a slug
// that resolves to nothing simply drops its predicate.
func (s *Service) buildListQuery(ctx context.Context, f ListingFilter) supabase.SelectRequest {
	filters := []supabase.Filter{supabase.Eq("status", "active")}

	if f.Condition != "" {
		filters = append(filters, supabase.Eq("condition", f.Condition))
	}
	if f.MinPrice > 0 {
		filters = append(filters, supabase.Gte("price", formatFloat(f.MinPrice)))
	}
	if f.MaxPrice > 0 {
		filters = append(filters, supabase.Lte("price", formatFloat(f.MaxPrice)))
	}
	if f.Search != "" {
		filters = append(filters, supabase.ILike("title", "*"+f.Search+"*"))
	}
	if f.Category != "" {
		if id := s.resolveSlug(ctx, "categories", f.Category); id != "" {
			filters = append(filters, supabase.Eq("category_id", id))
		}
	}
	if f.Brand != "" {
		if id := s.resolveSlug(ctx, "brands", f.Brand); id != "" {
			filters = append(filters, supabase.Eq("brand_id", id))
		}
	}

	size := f.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	order := sortOrder(f.SortBy)
	rng := pageRange(f.Page, size)

	return supabase.SelectRequest{
		Table:   "products",
		Columns: productSelect,
		Filters: filters,
		Order:   &order,
		Range:   &rng,
		Count:   true,
	}
}

// resolveSlug looks up a slug's id. Lookup failures and misses both yield
// "" so the caller omits the predicate instead of failing the query.
func (s *Service) resolveSlug(ctx context.Context, table, slug string) string {
	id, err := s.backend.LookupID(ctx, table, "slug", slug)
	if err != nil {
		s.log.Warn("slug lookup failed", slog.String("table", table), slog.String("slug", slug), slog.Any("error", err))
		return ""
	}
	return id
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%g", f)
}
