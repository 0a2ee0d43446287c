package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

type stubReader struct {
	list []orders.Order
	err  error
}

func (s *stubReader) List(context.Context) ([]orders.Order, error) {
	return s.list, s.err
}

func chatOrder(seq int, userID string, vendorIDs ...string) orders.Order {
	cart := make([]orders.LineItem, 0, len(vendorIDs))
	for i, vendorID := range vendorIDs {
		cart = append(cart, orders.LineItem{
			ProductID: fmt.Sprintf("p%d-%d", seq, i),
			Name:      "Product",
			Price:     decimal.NewFromInt(40),
			Quantity:  1,
			VendorID:  vendorID,
		})
	}
	// Descending timestamps keep the fixture newest first, mirroring List.
	created := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Add(-time.Duration(seq) * time.Hour)
	return orders.Order{
		OrderID:       fmt.Sprintf("ORD-1-CHAT%03d", seq),
		UserID:        userID,
		Cart:          cart,
		PaymentMethod: enums.PaymentMethodCOD,
		TotalAmount:   decimal.NewFromInt(int64(40 * len(vendorIDs))),
		Status:        enums.OrderStatusConfirmed,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestBuildContextSummarizesOrders(t *testing.T) {
	reader := &stubReader{list: []orders.Order{
		chatOrder(0, "me", "vendor-b"),
		chatOrder(1, "other", "vendor-a", "vendor-b"),
		chatOrder(2, "me", "vendor-c"),
	}}

	got, err := BuildContext(context.Background(), reader, "me")
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 2, got.UserOrderCount)
	assert.Equal(t, []string{"vendor-a", "vendor-b", "vendor-c"}, got.AvailableVendors)
	require.Len(t, got.RecentOrders, 3)
	assert.Equal(t, "ORD-1-CHAT000", got.RecentOrders[0].OrderID)
}

func TestBuildContextCapsRecentOrders(t *testing.T) {
	var list []orders.Order
	for i := 0; i < 8; i++ {
		list = append(list, chatOrder(i, "u1", "vendor-1"))
	}
	reader := &stubReader{list: list}

	got, err := BuildContext(context.Background(), reader, "")
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalOrders)
	assert.Equal(t, 0, got.UserOrderCount)
	require.Len(t, got.RecentOrders, 5)
	assert.Equal(t, "ORD-1-CHAT000", got.RecentOrders[0].OrderID)
	assert.Equal(t, "ORD-1-CHAT004", got.RecentOrders[4].OrderID)
}

func TestBuildContextEmptyPlatform(t *testing.T) {
	got, err := BuildContext(context.Background(), &stubReader{}, "me")
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalOrders)
	assert.Empty(t, got.AvailableVendors)
	assert.Empty(t, got.RecentOrders)
}

func TestBuildContextReaderFailure(t *testing.T) {
	reader := &stubReader{err: pkgerrors.New(pkgerrors.CodeDependency, "scan failed")}

	_, err := BuildContext(context.Background(), reader, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
