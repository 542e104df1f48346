package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/go2hand/go2hand/internal/catalog"
)

// DeviceCatalog is the slice of the catalog facade these handlers need.
type DeviceCatalog interface {
	FetchFeatured(ctx context.Context, limit int) []catalog.Device
	FetchByID(ctx context.Context, id string) (*catalog.Device, error)
	FetchList(ctx context.Context, f catalog.ListingFilter) ([]catalog.Device, int)
	FetchSimilar(ctx context.Context, categoryID, excludeID string, limit int) []catalog.Device
	FetchReviews(ctx context.Context, deviceID string) []catalog.Review
}

// CatalogDefaults carries the configured page and strip sizes. Zero fields
// fall back to the built-in defaults.
type CatalogDefaults struct {
	PageSize      int
	FeaturedLimit int
	SimilarLimit  int
}

// DevicesHandler handles device catalog endpoints.
type DevicesHandler struct {
	catalog  DeviceCatalog
	defaults CatalogDefaults
}

// NewDevicesHandler creates a new DevicesHandler.
func NewDevicesHandler(c DeviceCatalog, defaults CatalogDefaults) *DevicesHandler {
	if defaults.PageSize < 1 {
		defaults.PageSize = defaultPageSize
	}
	if defaults.FeaturedLimit < 1 {
		defaults.FeaturedLimit = defaultFeaturedLimit
	}
	if defaults.SimilarLimit < 1 {
		defaults.SimilarLimit = defaultSimilarLimit
	}
	return &DevicesHandler{catalog: c, defaults: defaults}
}

// --- Input/Output types ---

// ListDevicesInput is the input for the filtered device listing.
type ListDevicesInput struct {
	Category  string  `query:"category"  doc:"Filter by category slug"`
	Brand     string  `query:"brand"     doc:"Filter by brand slug"`
	Condition string  `query:"condition" doc:"Filter by condition code" enum:"like_new,excellent,good,fair,"`
	MinPrice  float64 `query:"min_price" doc:"Minimum price"            minimum:"0"`
	MaxPrice  float64 `query:"max_price" doc:"Maximum price"            minimum:"0"`
	Search    string  `query:"search"    doc:"Free-text title search"`
	SortBy    string  `query:"sort_by"   doc:"Sort order"               enum:"newest,price_asc,price_desc,popular,"`
	Page      int     `query:"page"      doc:"1-based page number"      minimum:"1"`
	Limit     int     `query:"limit"     doc:"Page size (default 20)"   minimum:"1" maximum:"100"`
}

// ListDevicesOutput is the response for the filtered device listing.
type ListDevicesOutput struct {
	Body struct {
		Devices []catalog.Device `json:"devices"`
		Total   int              `json:"total"`
		Page    int              `json:"page"`
		Limit   int              `json:"limit"`
	}
}

// FeaturedDevicesInput is the input for the homepage featured grid.
type FeaturedDevicesInput struct {
	Limit int `query:"limit" doc:"Number of devices (default 8)" minimum:"1" maximum:"50"`
}

// FeaturedDevicesOutput is the response for the featured grid.
type FeaturedDevicesOutput struct {
	Body struct {
		Devices []catalog.Device `json:"devices"`
	}
}

// GetDeviceInput is the input for a single device lookup.
type GetDeviceInput struct {
	ID string `path:"id" doc:"Device ID"`
}

// GetDeviceOutput is the response for a single device lookup.
type GetDeviceOutput struct {
	Body catalog.Device
}

// SimilarDevicesInput is the input for the similar-devices strip.
type SimilarDevicesInput struct {
	ID         string `path:"id"          doc:"Device ID to exclude"`
	CategoryID string `query:"category_id" doc:"Category of the current device" required:"true"`
	Limit      int    `query:"limit"       doc:"Number of devices (default 4)"  minimum:"1" maximum:"20"`
}

// SimilarDevicesOutput is the response for the similar-devices strip.
type SimilarDevicesOutput struct {
	Body struct {
		Devices []catalog.Device `json:"devices"`
	}
}

// DeviceReviewsInput is the input for a device's review list.
type DeviceReviewsInput struct {
	ID string `path:"id" doc:"Device ID"`
}

// DeviceReviewsOutput is the response for a device's review list.
type DeviceReviewsOutput struct {
	Body struct {
		Reviews []catalog.Review `json:"reviews"`
	}
}

// --- Handlers ---

const (
	defaultFeaturedLimit = 8
	defaultSimilarLimit  = 4
	defaultPageSize      = 20
)

// ListDevices returns one page of listings matching the query filters.
func (h *DevicesHandler) ListDevices(
	ctx context.Context,
	input *ListDevicesInput,
) (*ListDevicesOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = h.defaults.PageSize
	}

	devices, total := h.catalog.FetchList(ctx, catalog.ListingFilter{
		Category:  input.Category,
		Brand:     input.Brand,
		Condition: input.Condition,
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
		Search:    input.Search,
		SortBy:    catalog.SortMode(input.SortBy),
		Page:      page,
		PageSize:  limit,
	})

	resp := &ListDevicesOutput{}
	resp.Body.Devices = devices
	resp.Body.Total = total
	resp.Body.Page = page
	resp.Body.Limit = limit

	return resp, nil
}

// FeaturedDevices returns the homepage featured listings.
func (h *DevicesHandler) FeaturedDevices(
	ctx context.Context,
	input *FeaturedDevicesInput,
) (*FeaturedDevicesOutput, error) {
	limit := input.Limit
	if limit < 1 {
		limit = h.defaults.FeaturedLimit
	}

	resp := &FeaturedDevicesOutput{}
	resp.Body.Devices = h.catalog.FetchFeatured(ctx, limit)
	return resp, nil
}

// GetDevice returns a single device by ID.
func (h *DevicesHandler) GetDevice(
	ctx context.Context,
	input *GetDeviceInput,
) (*GetDeviceOutput, error) {
	device, err := h.catalog.FetchByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, huma.Error404NotFound("device not found")
		}
		return nil, huma.Error500InternalServerError("device lookup failed")
	}

	return &GetDeviceOutput{Body: *device}, nil
}

// SimilarDevices returns other devices in the same category.
func (h *DevicesHandler) SimilarDevices(
	ctx context.Context,
	input *SimilarDevicesInput,
) (*SimilarDevicesOutput, error) {
	limit := input.Limit
	if limit < 1 {
		limit = h.defaults.SimilarLimit
	}

	resp := &SimilarDevicesOutput{}
	resp.Body.Devices = h.catalog.FetchSimilar(ctx, input.CategoryID, input.ID, limit)
	return resp, nil
}

// DeviceReviews returns a device's reviews, newest first.
func (h *DevicesHandler) DeviceReviews(
	ctx context.Context,
	input *DeviceReviewsInput,
) (*DeviceReviewsOutput, error) {
	resp := &DeviceReviewsOutput{}
	resp.Body.Reviews = h.catalog.FetchReviews(ctx, input.ID)
	return resp, nil
}

// RegisterDeviceRoutes registers device catalog endpoints with the Huma API.
func RegisterDeviceRoutes(api huma.API, h *DevicesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices",
		Summary:     "List devices",
		Description: "Returns one page of active listings with optional filters for category, brand, condition, price band, and text search.",
		Tags:        []string{"devices"},
	}, h.ListDevices)

	huma.Register(api, huma.Operation{
		OperationID: "featured-devices",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices/featured",
		Summary:     "Featured devices",
		Description: "Returns the newest featured listings for the homepage grid.",
		Tags:        []string{"devices"},
	}, h.FeaturedDevices)

	huma.Register(api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices/{id}",
		Summary:     "Get a device by ID",
		Description: "Returns a single active listing. Viewing a device bumps its view counter.",
		Tags:        []string{"devices"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetDevice)

	huma.Register(api, huma.Operation{
		OperationID: "similar-devices",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices/{id}/similar",
		Summary:     "Similar devices",
		Description: "Returns other active listings in the same category, excluding the device itself.",
		Tags:        []string{"devices"},
	}, h.SimilarDevices)

	huma.Register(api, huma.Operation{
		OperationID: "device-reviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices/{id}/reviews",
		Summary:     "Device reviews",
		Description: "Returns a device's buyer reviews, newest first.",
		Tags:        []string{"devices"},
	}, h.DeviceReviews)
}
