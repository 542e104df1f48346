package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/go2hand/go2hand/internal/metrics"
	"github.com/go2hand/go2hand/internal/supabase"
)

// ErrNotFound marks a device id with no matching active listing. It is the
// expected outcome for stale links, not a failure.
var ErrNotFound = errors.New("device not found")

// Service is the device access facade. All reads except FetchByID degrade
// to empty results on backend failure so browse surfaces render with
// whatever data is available.
type Service struct {
	backend supabase.Client
	log     *slog.Logger
}

// NewService returns a facade over the given backend.
func NewService(backend supabase.Client, log *slog.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// FetchFeatured returns up to limit featured active listings, newest first.
// A failing backend yields an empty slice, never an error.
func (s *Service) FetchFeatured(ctx context.Context, limit int) []Device {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "products",
		Columns: productSelect,
		Filters: []supabase.Filter{
			supabase.Eq("status", "active"),
			supabase.Eq("is_featured", "true"),
		},
		Order: &supabase.Order{Column: "created_at", Descending: true},
		Limit: limit,
	})
	if err != nil {
		s.log.Error("featured fetch failed", slog.Any("error", err))
		return []Device{}
	}
	return s.mapRows(res.Rows)
}

// FetchByID returns the single active listing with the given id, or
// ErrNotFound when no such listing exists. A successful lookup bumps the
// listing's view count in the background; that write is never awaited.
func (s *Service) FetchByID(ctx context.Context, id string) (*Device, error) {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "products",
		Columns: productSelect,
		Filters: []supabase.Filter{
			supabase.Eq("id", id),
			supabase.Eq("status", "active"),
		},
		Limit: 1,
	})
	if err != nil {
		s.log.Error("device fetch failed", slog.String("id", id), slog.Any("error", err))
		return nil, ErrNotFound
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}

	var row productRow
	if err := json.Unmarshal(res.Rows[0], &row); err != nil {
		s.log.Error("device row decode failed", slog.String("id", id), slog.Any("error", err))
		return nil, ErrNotFound
	}

	go s.bumpViewCount(id, int(row.ViewCount)+1)

	device := mapProduct(row)
	return &device, nil
}

// bumpViewCount runs detached from the request that triggered it, so it
// carries its own context and deadline.
func (s *Service) bumpViewCount(id string, next int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.backend.UpdateByID(ctx, "products", id, map[string]any{"view_count": next}); err != nil {
		metrics.ViewCountUpdateFailures.Inc()
		s.log.Debug("view count update failed", slog.String("id", id), slog.Any("error", err))
	}
}

// FetchList returns one page of listings matching the filter plus the total
// match count across all pages. Backend failure yields an empty page.
func (s *Service) FetchList(ctx context.Context, f ListingFilter) ([]Device, int) {
	res, err := s.backend.Select(ctx, s.buildListQuery(ctx, f))
	if err != nil {
		s.log.Error("listing fetch failed", slog.Any("error", err))
		return []Device{}, 0
	}
	return s.mapRows(res.Rows), res.Total
}

// FetchSimilar returns up to limit other active listings in the same
// category, newest first. The excluded id never appears in the result.
func (s *Service) FetchSimilar(ctx context.Context, categoryID, excludeID string, limit int) []Device {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "products",
		Columns: productSelect,
		Filters: []supabase.Filter{
			supabase.Eq("status", "active"),
			supabase.Eq("category_id", categoryID),
			supabase.Neq("id", excludeID),
		},
		Order: &supabase.Order{Column: "created_at", Descending: true},
		Limit: limit,
	})
	if err != nil {
		s.log.Error("similar fetch failed", slog.String("category_id", categoryID), slog.Any("error", err))
		return []Device{}
	}
	return s.mapRows(res.Rows)
}

// FetchReviews returns a listing's reviews, newest first. Backend failure
// yields an empty slice.
func (s *Service) FetchReviews(ctx context.Context, deviceID string) []Review {
	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "reviews",
		Columns: reviewSelect,
		Filters: []supabase.Filter{supabase.Eq("product_id", deviceID)},
		Order:   &supabase.Order{Column: "created_at", Descending: true},
	})
	if err != nil {
		s.log.Error("reviews fetch failed", slog.String("device_id", deviceID), slog.Any("error", err))
		return []Review{}
	}
	return lo.FilterMap(res.Rows, func(raw json.RawMessage, _ int) (Review, bool) {
		var row reviewRow
		if err := json.Unmarshal(raw, &row); err != nil {
			s.log.Warn("skipping undecodable review row", slog.Any("error", err))
			return Review{}, false
		}
		return mapReview(row), true
	})
}

// mapRows maps raw listing rows to devices, skipping rows that fail to
// decode so one bad row never empties a page.
func (s *Service) mapRows(rows []json.RawMessage) []Device {
	return lo.FilterMap(rows, func(raw json.RawMessage, _ int) (Device, bool) {
		var row productRow
		if err := json.Unmarshal(raw, &row); err != nil {
			s.log.Warn("skipping undecodable product row", slog.Any("error", err))
			return Device{}, false
		}
		return mapProduct(row), true
	})
}
