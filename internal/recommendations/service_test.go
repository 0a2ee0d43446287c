package recommendations

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

var orderSeq int

func orderFor(userID, city string, productIDs ...string) orders.Order {
	orderSeq++
	cart := make([]orders.LineItem, 0, len(productIDs))
	for _, id := range productIDs {
		cart = append(cart, orders.LineItem{
			ProductID: id,
			Name:      "Product " + id,
			Price:     decimal.NewFromInt(25),
			Quantity:  1,
			VendorID:  "vendor-1",
		})
	}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return orders.Order{
		OrderID:       fmt.Sprintf("ORD-1-SEQ%04d", orderSeq),
		UserID:        userID,
		Cart:          cart,
		Address:       orders.Address{Name: "Test", Phone: "7777777777", Street: "1 Lane", City: city, Pincode: "411001"},
		PaymentMethod: enums.PaymentMethodCOD,
		TotalAmount:   decimal.NewFromInt(int64(25 * len(productIDs))),
		Status:        enums.OrderStatusConfirmed,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func testService(t *testing.T, list []orders.Order) *Service {
	t.Helper()
	svc, err := NewService(&stubReader{list: list})
	require.NoError(t, err)
	return svc
}

func productIDs(list []RecommendedProduct) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ProductID)
	}
	return out
}

func TestRecommendRanksByFrequency(t *testing.T) {
	svc := testService(t, []orders.Order{
		orderFor("u1", "Pune", "p1", "p2"),
		orderFor("u2", "Pune", "p2", "p3"),
		orderFor("u3", "Pune", "p2"),
		orderFor("u4", "Pune", "p3"),
	})

	list, err := svc.Recommend(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3", "p1"}, productIDs(list))
	assert.Equal(t, 3, list[0].Popularity)
}

func TestRecommendExcludesOwnPurchases(t *testing.T) {
	svc := testService(t, []orders.Order{
		orderFor("me", "Pune", "p1"),
		orderFor("u2", "Pune", "p2", "p3"),
		orderFor("u3", "Pune", "p2", "p4"),
		orderFor("u4", "Pune", "p5"),
	})

	list, err := svc.Recommend(context.Background(), "me", "", 3)
	require.NoError(t, err)
	assert.NotContains(t, productIDs(list), "p1")
	assert.Equal(t, "p2", list[0].ProductID)
}

func TestRecommendFallsBackWhenExclusionStarvesPage(t *testing.T) {
	// The user has bought nearly everything; exclusion alone cannot fill the
	// page, so the unfiltered ranking comes back.
	svc := testService(t, []orders.Order{
		orderFor("me", "Pune", "p1", "p2"),
		orderFor("u2", "Pune", "p1", "p3"),
	})

	list, err := svc.Recommend(context.Background(), "me", "", 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Contains(t, productIDs(list), "p1")
}

func TestRecommendFiltersByLocation(t *testing.T) {
	svc := testService(t, []orders.Order{
		orderFor("u1", "Pune", "p1"),
		orderFor("u2", "Mumbai", "p2"),
	})

	list, err := svc.Recommend(context.Background(), "", "Pune", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, productIDs(list))
}

func TestRecommendOwnPurchasesCollectedBeforeLocationFilter(t *testing.T) {
	// The user's purchase was delivered to another city; it must still be
	// excluded from a city-scoped ranking.
	svc := testService(t, []orders.Order{
		orderFor("me", "Mumbai", "p1"),
		orderFor("u2", "Pune", "p1", "p2"),
		orderFor("u3", "Pune", "p3"),
		orderFor("u4", "Pune", "p4"),
	})

	list, err := svc.Recommend(context.Background(), "me", "Pune", 3)
	require.NoError(t, err)
	assert.NotContains(t, productIDs(list), "p1")
}

func TestRecommendTruncatesToLimit(t *testing.T) {
	var list []orders.Order
	for i := 0; i < 10; i++ {
		list = append(list, orderFor("u1", "Pune", fmt.Sprintf("p%d", i)))
	}
	svc := testService(t, list)

	out, err := svc.Recommend(context.Background(), "", "", 4)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestRecommendEmptyHistory(t *testing.T) {
	svc := testService(t, nil)

	list, err := svc.Recommend(context.Background(), "u1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecommendReaderFailure(t *testing.T) {
	svc, err := NewService(&stubReader{err: pkgerrors.New(pkgerrors.CodeDependency, "scan failed")})
	require.NoError(t, err)

	_, err = svc.Recommend(context.Background(), "", "", 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
