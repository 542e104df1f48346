// Package orders handles order creation and tracking between buyers and
// sellers.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/go2hand/go2hand/internal/supabase"
)

// Role selects which side of an order a user is on.
type Role string

// Order roles.
const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Order statuses walk pending → paid → shipped → completed, with
// cancelled reachable from pending or paid.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order is one purchase of a listing.
type Order struct {
	ID              string  `json:"id"`
	BuyerID         string  `json:"buyer_id"`
	SellerID        string  `json:"seller_id"`
	ProductID       string  `json:"product_id"`
	Status          string  `json:"status"`
	Total           float64 `json:"total"`
	ShippingAddress string  `json:"shipping_address,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// NewOrder carries the caller-supplied fields of an order to create.
type NewOrder struct {
	BuyerID         string
	SellerID        string
	ProductID       string
	Total           float64
	ShippingAddress string
}

// Service reads and writes the orders table.
type Service struct {
	backend supabase.Client
}

// NewService returns an order service over the given backend.
func NewService(backend supabase.Client) *Service {
	return &Service{backend: backend}
}

// Create inserts a new pending order and returns it as stored.
func (s *Service) Create(ctx context.Context, in NewOrder) (*Order, error) {
	row, err := s.backend.InsertRow(ctx, "orders", map[string]any{
		"id":               uuid.NewString(),
		"buyer_id":         in.BuyerID,
		"seller_id":        in.SellerID,
		"product_id":       in.ProductID,
		"status":           StatusPending,
		"total":            in.Total,
		"shipping_address": in.ShippingAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	var order Order
	if err := json.Unmarshal(row, &order); err != nil {
		return nil, fmt.Errorf("decoding created order: %w", err)
	}
	return &order, nil
}

// ListForUser returns a user's orders, newest first. The role picks which
// side of the order the user id matches.
func (s *Service) ListForUser(ctx context.Context, userID string, role Role) ([]Order, error) {
	column := "buyer_id"
	if role == RoleSeller {
		column = "seller_id"
	}

	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "orders",
		Filters: []supabase.Filter{supabase.Eq(column, userID)},
		Order:   &supabase.Order{Column: "created_at", Descending: true},
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders for %s %q: %w", role, userID, err)
	}

	orders := make([]Order, 0, len(res.Rows))
	for _, raw := range res.Rows {
		var order Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("decoding order row: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus moves an order to the given status and stamps the change
// time.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	err := s.backend.UpdateByID(ctx, "orders", orderID, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", orderID, err)
	}
	return nil
}
