// Package taxonomy serves the category, brand, and device-model trees that
// drive browse navigation. Unlike the catalog facade its reads propagate
// backend errors; navigation callers want to know when the tree is missing.
package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go2hand/go2hand/internal/supabase"
)

// ErrNotFound marks a slug with no matching category.
var ErrNotFound = errors.New("category not found")

// Category is one node of the category tree. Fields mirror the backend
// columns so rows decode directly.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  string     `json:"parent_id,omitempty"`
	IconName  string     `json:"icon_name,omitempty"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	Children  []Category `json:"children,omitempty"`
}

// Brand is a device manufacturer.
type Brand struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	LogoURL   string `json:"logo_url,omitempty"`
	IsPopular bool   `json:"is_popular"`
}

// DeviceModel is one model under a brand.
type DeviceModel struct {
	ID        string `json:"id"`
	BrandID   string `json:"brand_id"`
	ModelName string `json:"model_name"`
}

// Service reads the taxonomy tables.
type Service struct {
	backend supabase.Client
}

// NewService returns a taxonomy reader over the given backend.
func NewService(backend supabase.Client) *Service {
	return &Service{backend: backend}
}

// ListCategories returns the active top-level categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table: "categories",
		Filters: []supabase.Filter{
			supabase.Eq("is_active", "true"),
			supabase.IsNull("parent_id"),
		},
		Order: &supabase.Order{Column: "sort_order"},
	})
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return decodeRows[Category](res.Rows)
}

// CategoryWithChildren returns the category with the given slug and its
// child categories.
func (s *Service) CategoryWithChildren(ctx context.Context, slug string) (*Category, error) {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "categories",
		Columns: "*,children:categories(id,name,slug,sort_order,is_active)",
		Filters: []supabase.Filter{supabase.Eq("slug", slug)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching category %q: %w", slug, err)
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}

	var category Category
	if err := json.Unmarshal(res.Rows[0], &category); err != nil {
		return nil, fmt.Errorf("decoding category %q: %w", slug, err)
	}
	return &category, nil
}

// ListBrands returns all brands, or only the popular ones.
func (s *Service) ListBrands(ctx context.Context, popularOnly bool) ([]Brand, error) {
	req := supabase.SelectRequest{
		Table: "brands",
		Order: &supabase.Order{Column: "name"},
	}
	if popularOnly {
		req.Filters = []supabase.Filter{supabase.Eq("is_popular", "true")}
	}

	res, err := s.backend.Select(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	return decodeRows[Brand](res.Rows)
}

// ListModels returns a brand's device models.
func (s *Service) ListModels(ctx context.Context, brandID string) ([]DeviceModel, error) {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "device_models",
		Filters: []supabase.Filter{supabase.Eq("brand_id", brandID)},
		Order:   &supabase.Order{Column: "model_name"},
	})
	if err != nil {
		return nil, fmt.Errorf("listing models for brand %q: %w", brandID, err)
	}
	return decodeRows[DeviceModel](res.Rows)
}

func decodeRows[T any](rows []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, raw := range rows {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}
