package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go2hand/go2hand/internal/api/handlers"
	"github.com/go2hand/go2hand/internal/orders"
)

type fakeOrders struct {
	createFn func(ctx context.Context, in orders.NewOrder) (*orders.Order, error)
	listFn   func(ctx context.Context, userID string, role orders.Role) ([]orders.Order, error)
	updateFn func(ctx context.Context, orderID, status string) error
}

func (f *fakeOrders) Create(ctx context.Context, in orders.NewOrder) (*orders.Order, error) {
	return f.createFn(ctx, in)
}

func (f *fakeOrders) ListForUser(ctx context.Context, userID string, role orders.Role) ([]orders.Order, error) {
	return f.listFn(ctx, userID, role)
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, orderID, status string) error {
	return f.updateFn(ctx, orderID, status)
}

func TestOrdersHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		createFn   func(ctx context.Context, in orders.NewOrder) (*orders.Order, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid order returns 201",
			body: map[string]any{
				"buyer_id":   "u1",
				"seller_id":  "u2",
				"product_id": "p1",
				"total":      700,
			},
			createFn: func(_ context.Context, in orders.NewOrder) (*orders.Order, error) {
				assert.Equal(t, "u1", in.BuyerID)
				assert.Equal(t, 700.0, in.Total)
				return &orders.Order{ID: "o1", Status: "pending", Total: 700}, nil
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"status":"pending"`,
		},
		{
			name:       "missing buyer returns 422",
			body:       map[string]any{"seller_id": "u2", "product_id": "p1", "total": 700},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "backend error returns 500",
			body: map[string]any{
				"buyer_id":   "u1",
				"seller_id":  "u2",
				"product_id": "p1",
				"total":      700,
			},
			createFn: func(_ context.Context, _ orders.NewOrder) (*orders.Order, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "order creation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewOrdersHandler(&fakeOrders{createFn: tt.createFn})

			_, api := humatest.New(t)
			handlers.RegisterOrderRoutes(api, h)

			resp := api.Post("/api/v1/orders", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOrdersHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantRole orders.Role
	}{
		{"defaults to buyer", "?user_id=u1", orders.RoleBuyer},
		{"seller side", "?user_id=u1&role=seller", orders.RoleSeller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewOrdersHandler(&fakeOrders{
				listFn: func(_ context.Context, userID string, role orders.Role) ([]orders.Order, error) {
					assert.Equal(t, "u1", userID)
					assert.Equal(t, tt.wantRole, role)
					return []orders.Order{{ID: "o1", Status: "paid"}}, nil
				},
			})

			_, api := humatest.New(t)
			handlers.RegisterOrderRoutes(api, h)

			resp := api.Get("/api/v1/orders" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Contains(t, resp.Body.String(), `"status":"paid"`)
		})
	}
}

func TestOrdersHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		updateFn   func(ctx context.Context, orderID, status string) error
		wantStatus int
	}{
		{
			name: "valid transition",
			body: map[string]any{"status": "shipped"},
			updateFn: func(_ context.Context, orderID, status string) error {
				assert.Equal(t, "o1", orderID)
				assert.Equal(t, "shipped", status)
				return nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown status returns 422",
			body:       map[string]any{"status": "teleported"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "backend error returns 500",
			body: map[string]any{"status": "shipped"},
			updateFn: func(_ context.Context, _, _ string) error {
				return assert.AnError
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewOrdersHandler(&fakeOrders{updateFn: tt.updateFn})

			_, api := humatest.New(t)
			handlers.RegisterOrderRoutes(api, h)

			resp := api.Patch("/api/v1/orders/o1/status", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}
