package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go2hand/go2hand/internal/supabase"
)

type fakeBackend struct {
	selectFn func(ctx context.Context, req supabase.SelectRequest) (*supabase.SelectResult, error)
	insertFn func(ctx context.Context, table string, fields map[string]any) (json.RawMessage, error)
	updateFn func(ctx context.Context, table, id string, fields map[string]any) error
}

func (f *fakeBackend) Select(ctx context.Context, req supabase.SelectRequest) (*supabase.SelectResult, error) {
	return f.selectFn(ctx, req)
}

func (f *fakeBackend) InsertRow(ctx context.Context, table string, fields map[string]any) (json.RawMessage, error) {
	return f.insertFn(ctx, table, fields)
}

func (f *fakeBackend) UpdateByID(ctx context.Context, table, id string, fields map[string]any) error {
	return f.updateFn(ctx, table, id, fields)
}

func (f *fakeBackend) LookupID(context.Context, string, string, string) (string, error) {
	return "", nil
}

func TestCreate(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		insertFn: func(_ context.Context, table string, fields map[string]any) (json.RawMessage, error) {
			assert.Equal(t, "orders", table)
			assert.Equal(t, "pending", fields["status"])
			assert.Equal(t, "u1", fields["buyer_id"])

			// The service assigns the order id.
			id, ok := fields["id"].(string)
			require.True(t, ok)
			_, err := uuid.Parse(id)
			require.NoError(t, err)

			stored, _ := json.Marshal(map[string]any{
				"id": id, "buyer_id": "u1", "seller_id": "u2",
				"product_id": "p1", "status": "pending", "total": 700,
			})
			return stored, nil
		},
	}

	order, err := NewService(backend).Create(context.Background(), NewOrder{
		BuyerID: "u1", SellerID: "u2", ProductID: "p1", Total: 700,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 700.0, order.Total)
	assert.NotEmpty(t, order.ID)
}

func TestCreate_BackendError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		insertFn: func(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
			return nil, assert.AnError
		},
	}

	_, err := NewService(backend).Create(context.Background(), NewOrder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating order")
}

func TestListForUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role       Role
		wantColumn string
	}{
		{RoleBuyer, "buyer_id"},
		{RoleSeller, "seller_id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{
				selectFn: func(_ context.Context, req supabase.SelectRequest) (*supabase.SelectResult, error) {
					assert.Equal(t, "orders", req.Table)
					assert.Equal(t, []supabase.Filter{supabase.Eq(tt.wantColumn, "u1")}, req.Filters)
					assert.Equal(t, supabase.Order{Column: "created_at", Descending: true}, *req.Order)
					return &supabase.SelectResult{Rows: []json.RawMessage{
						json.RawMessage(`{"id":"o1","status":"paid","total":700}`),
					}}, nil
				},
			}

			orders, err := NewService(backend).ListForUser(context.Background(), "u1", tt.role)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, "paid", orders[0].Status)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		updateFn: func(_ context.Context, table, id string, fields map[string]any) error {
			assert.Equal(t, "orders", table)
			assert.Equal(t, "o1", id)
			assert.Equal(t, "shipped", fields["status"])
			assert.NotEmpty(t, fields["updated_at"])
			return nil
		},
	}

	require.NoError(t, NewService(backend).UpdateStatus(context.Background(), "o1", "shipped"))
}

func TestUpdateStatus_Error(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		updateFn: func(_ context.Context, _, _ string, _ map[string]any) error {
			return assert.AnError
		},
	}

	err := NewService(backend).UpdateStatus(context.Background(), "o1", "shipped")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating order")
}
