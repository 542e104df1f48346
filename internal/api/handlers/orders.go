package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/go2hand/go2hand/internal/orders"
)

// OrderStore is the slice of the order service these handlers need.
type OrderStore interface {
	Create(ctx context.Context, in orders.NewOrder) (*orders.Order, error)
	ListForUser(ctx context.Context, userID string, role orders.Role) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// OrdersHandler handles order endpoints.
type OrdersHandler struct {
	orders OrderStore
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(o OrderStore) *OrdersHandler {
	return &OrdersHandler{orders: o}
}

// --- Input/Output types ---

// CreateOrderInput is the input for creating an order.
type CreateOrderInput struct {
	Body struct {
		BuyerID         string  `json:"buyer_id"         required:"true" doc:"Buyer user ID"`
		SellerID        string  `json:"seller_id"        required:"true" doc:"Seller user ID"`
		ProductID       string  `json:"product_id"       required:"true" doc:"Listing ID"`
		Total           float64 `json:"total"            required:"true" doc:"Order total" minimum:"0"`
		ShippingAddress string  `json:"shipping_address,omitempty" doc:"Delivery address"`
	}
}

// CreateOrderOutput is the response for creating an order.
type CreateOrderOutput struct {
	Status int
	Body   orders.Order
}

// ListOrdersInput is the input for a user's order list.
type ListOrdersInput struct {
	UserID string `query:"user_id" required:"true" doc:"User ID"`
	Role   string `query:"role"    doc:"Which side of the order" enum:"buyer,seller,"`
}

// ListOrdersOutput is the response for a user's order list.
type ListOrdersOutput struct {
	Body struct {
		Orders []orders.Order `json:"orders"`
	}
}

// UpdateOrderStatusInput is the input for an order status change.
type UpdateOrderStatusInput struct {
	ID   string `path:"id" doc:"Order ID"`
	Body struct {
		Status string `json:"status" required:"true" doc:"New status" enum:"pending,paid,shipped,completed,cancelled"`
	}
}

// UpdateOrderStatusOutput is the response for an order status change.
type UpdateOrderStatusOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// --- Handlers ---

// CreateOrder inserts a new pending order.
func (h *OrdersHandler) CreateOrder(
	ctx context.Context,
	input *CreateOrderInput,
) (*CreateOrderOutput, error) {
	order, err := h.orders.Create(ctx, orders.NewOrder{
		BuyerID:         input.Body.BuyerID,
		SellerID:        input.Body.SellerID,
		ProductID:       input.Body.ProductID,
		Total:           input.Body.Total,
		ShippingAddress: input.Body.ShippingAddress,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("order creation failed")
	}

	return &CreateOrderOutput{Status: http.StatusCreated, Body: *order}, nil
}

// ListOrders returns a user's orders, newest first.
func (h *OrdersHandler) ListOrders(
	ctx context.Context,
	input *ListOrdersInput,
) (*ListOrdersOutput, error) {
	role := orders.Role(input.Role)
	if role == "" {
		role = orders.RoleBuyer
	}

	list, err := h.orders.ListForUser(ctx, input.UserID, role)
	if err != nil {
		return nil, huma.Error500InternalServerError("order query failed")
	}

	resp := &ListOrdersOutput{}
	resp.Body.Orders = list
	return resp, nil
}

// UpdateOrderStatus moves an order to a new status.
func (h *OrdersHandler) UpdateOrderStatus(
	ctx context.Context,
	input *UpdateOrderStatusInput,
) (*UpdateOrderStatusOutput, error) {
	if err := h.orders.UpdateStatus(ctx, input.ID, input.Body.Status); err != nil {
		return nil, huma.Error500InternalServerError("order update failed")
	}

	resp := &UpdateOrderStatusOutput{}
	resp.Body.Status = input.Body.Status
	return resp, nil
}

// RegisterOrderRoutes registers order endpoints with the Huma API.
func RegisterOrderRoutes(api huma.API, h *OrdersHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-order",
		Method:        http.MethodPost,
		Path:          "/api/v1/orders",
		Summary:       "Create an order",
		Description:   "Creates a pending order for a listing.",
		Tags:          []string{"orders"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateOrder)

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders",
		Summary:     "List a user's orders",
		Description: "Returns a user's orders as buyer or seller, newest first.",
		Tags:        []string{"orders"},
	}, h.ListOrders)

	huma.Register(api, huma.Operation{
		OperationID: "update-order-status",
		Method:      http.MethodPatch,
		Path:        "/api/v1/orders/{id}/status",
		Summary:     "Update an order's status",
		Description: "Moves an order to a new status and stamps the change time.",
		Tags:        []string{"orders"},
	}, h.UpdateOrderStatus)
}
