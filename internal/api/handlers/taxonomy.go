package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/go2hand/go2hand/internal/taxonomy"
)

// TaxonomyReader is the slice of the taxonomy service these handlers need.
type TaxonomyReader interface {
	ListCategories(ctx context.Context) ([]taxonomy.Category, error)
	CategoryWithChildren(ctx context.Context, slug string) (*taxonomy.Category, error)
	ListBrands(ctx context.Context, popularOnly bool) ([]taxonomy.Brand, error)
	ListModels(ctx context.Context, brandID string) ([]taxonomy.DeviceModel, error)
}

// TaxonomyHandler handles category, brand, and model endpoints.
type TaxonomyHandler struct {
	taxonomy TaxonomyReader
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(t TaxonomyReader) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: t}
}

// --- Input/Output types ---

// ListCategoriesOutput is the response for the top-level category list.
type ListCategoriesOutput struct {
	Body struct {
		Categories []taxonomy.Category `json:"categories"`
	}
}

// GetCategoryInput is the input for a category lookup by slug.
type GetCategoryInput struct {
	Slug string `path:"slug" doc:"Category slug"`
}

// GetCategoryOutput is the response for a category lookup.
type GetCategoryOutput struct {
	Body taxonomy.Category
}

// ListBrandsInput is the input for the brand list.
type ListBrandsInput struct {
	Popular bool `query:"popular" doc:"Only popular brands"`
}

// ListBrandsOutput is the response for the brand list.
type ListBrandsOutput struct {
	Body struct {
		Brands []taxonomy.Brand `json:"brands"`
	}
}

// ListModelsInput is the input for a brand's model list.
type ListModelsInput struct {
	BrandID string `path:"id" doc:"Brand ID"`
}

// ListModelsOutput is the response for a brand's model list.
type ListModelsOutput struct {
	Body struct {
		Models []taxonomy.DeviceModel `json:"models"`
	}
}

// --- Handlers ---

// ListCategories returns the active top-level categories in display order.
func (h *TaxonomyHandler) ListCategories(
	ctx context.Context,
	_ *struct{},
) (*ListCategoriesOutput, error) {
	categories, err := h.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("category query failed")
	}

	resp := &ListCategoriesOutput{}
	resp.Body.Categories = categories
	return resp, nil
}

// GetCategory returns one category and its children by slug.
func (h *TaxonomyHandler) GetCategory(
	ctx context.Context,
	input *GetCategoryInput,
) (*GetCategoryOutput, error) {
	category, err := h.taxonomy.CategoryWithChildren(ctx, input.Slug)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			return nil, huma.Error404NotFound("category not found")
		}
		return nil, huma.Error500InternalServerError("category query failed")
	}

	return &GetCategoryOutput{Body: *category}, nil
}

// ListBrands returns brands, optionally only the popular ones.
func (h *TaxonomyHandler) ListBrands(
	ctx context.Context,
	input *ListBrandsInput,
) (*ListBrandsOutput, error) {
	brands, err := h.taxonomy.ListBrands(ctx, input.Popular)
	if err != nil {
		return nil, huma.Error500InternalServerError("brand query failed")
	}

	resp := &ListBrandsOutput{}
	resp.Body.Brands = brands
	return resp, nil
}

// ListModels returns a brand's device models.
func (h *TaxonomyHandler) ListModels(
	ctx context.Context,
	input *ListModelsInput,
) (*ListModelsOutput, error) {
	models, err := h.taxonomy.ListModels(ctx, input.BrandID)
	if err != nil {
		return nil, huma.Error500InternalServerError("model query failed")
	}

	resp := &ListModelsOutput{}
	resp.Body.Models = models
	return resp, nil
}

// RegisterTaxonomyRoutes registers taxonomy endpoints with the Huma API.
func RegisterTaxonomyRoutes(api huma.API, h *TaxonomyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the active top-level categories in display order.",
		Tags:        []string{"taxonomy"},
	}, h.ListCategories)

	huma.Register(api, huma.Operation{
		OperationID: "get-category",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{slug}",
		Summary:     "Get a category by slug",
		Description: "Returns one category and its child categories.",
		Tags:        []string{"taxonomy"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetCategory)

	huma.Register(api, huma.Operation{
		OperationID: "list-brands",
		Method:      http.MethodGet,
		Path:        "/api/v1/brands",
		Summary:     "List brands",
		Description: "Returns all brands, or only the popular ones.",
		Tags:        []string{"taxonomy"},
	}, h.ListBrands)

	huma.Register(api, huma.Operation{
		OperationID: "list-brand-models",
		Method:      http.MethodGet,
		Path:        "/api/v1/brands/{id}/models",
		Summary:     "List a brand's models",
		Description: "Returns the device models under a brand.",
		Tags:        []string{"taxonomy"},
	}, h.ListModels)
}
