package chat

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

const recentOrdersLimit = 5

// OrderSummary is the compact order view embedded into the model prompt.
type OrderSummary struct {
	OrderID   string            `json:"orderId"`
	Status    enums.OrderStatus `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Context is the platform snapshot grounding the conversational model. The
// builder does no NLP; it only summarizes order state.
type Context struct {
	TotalOrders      int            `json:"totalOrders"`
	UserOrderCount   int            `json:"userOrderCount"`
	AvailableVendors []string       `json:"availableVendors"`
	RecentOrders     []OrderSummary `json:"recentOrders"`
}

// Reader is the read-only slice of the order repository the builder consumes.
type Reader interface {
	List(ctx context.Context) ([]orders.Order, error)
}

// BuildContext assembles the order/vendor summary for one conversational
// turn. userID may be empty for anonymous callers.
func BuildContext(ctx context.Context, reader Reader, userID string) (*Context, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order reader required")
	}
	list, err := reader.List(ctx)
	if err != nil {
		return nil, err
	}

	userOrderCount := 0
	vendorSet := make(map[string]bool)
	for _, order := range list {
		if userID != "" && order.UserID == userID {
			userOrderCount++
		}
		for _, item := range order.Cart {
			if item.VendorID != "" {
				vendorSet[item.VendorID] = true
			}
		}
	}

	vendors := make([]string, 0, len(vendorSet))
	for vendor := range vendorSet {
		vendors = append(vendors, vendor)
	}
	sort.Strings(vendors)

	// List is already newest first.
	recent := make([]OrderSummary, 0, recentOrdersLimit)
	for _, order := range list {
		if len(recent) == recentOrdersLimit {
			break
		}
		recent = append(recent, OrderSummary{
			OrderID:   order.OrderID,
			Status:    order.Status,
			Total:     order.TotalAmount,
			CreatedAt: order.CreatedAt,
		})
	}

	return &Context{
		TotalOrders:      len(list),
		UserOrderCount:   userOrderCount,
		AvailableVendors: vendors,
		RecentOrders:     recent,
	}, nil
}
