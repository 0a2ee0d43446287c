package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghartak/ghartak-backend/internal/orders"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

func TestPredictDemandRequiresVendorID(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.PredictDemand(context.Background(), "", 30)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPredictDemandAverageAndProjection(t *testing.T) {
	// 30 units across a 30 day window: one unit per day, seven next week.
	svc := testService(t, []orders.Order{
		testOrder(fixedNow.Add(-20*24*time.Hour), item("p1", "vendor-1", 10, 15)),
		testOrder(fixedNow.Add(-5*24*time.Hour), item("p1", "vendor-1", 10, 15)),
	})

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 30)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, "p1", f.ProductID)
	assert.InDelta(t, 1.0, f.AverageDailySales, 0.0001)
	assert.Equal(t, 7, f.PredictedNextWeekSales)
	assert.Equal(t, TrendStable, f.Trend)
}

func TestPredictDemandIgnoresSalesOutsideWindow(t *testing.T) {
	svc := testService(t, []orders.Order{
		testOrder(fixedNow.Add(-40*24*time.Hour), item("p1", "vendor-1", 10, 100)),
		testOrder(fixedNow.Add(-2*24*time.Hour), item("p1", "vendor-1", 10, 3)),
	})

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 30)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.InDelta(t, 0.1, forecasts[0].AverageDailySales, 0.0001)
}

func TestPredictDemandTrendIncreasing(t *testing.T) {
	svc := testService(t, []orders.Order{
		testOrder(fixedNow.Add(-25*24*time.Hour), item("p1", "vendor-1", 10, 2)),
		testOrder(fixedNow.Add(-3*24*time.Hour), item("p1", "vendor-1", 10, 10)),
	})

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 30)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, TrendIncreasing, forecasts[0].Trend)
}

func TestPredictDemandTrendDecreasing(t *testing.T) {
	svc := testService(t, []orders.Order{
		testOrder(fixedNow.Add(-25*24*time.Hour), item("p1", "vendor-1", 10, 10)),
		testOrder(fixedNow.Add(-3*24*time.Hour), item("p1", "vendor-1", 10, 2)),
	})

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 30)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, TrendDecreasing, forecasts[0].Trend)
}

func TestPredictDemandDefaultsWindow(t *testing.T) {
	svc := testService(t, []orders.Order{
		testOrder(fixedNow.Add(-15*24*time.Hour), item("p1", "vendor-1", 10, 30)),
	})

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 0)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.InDelta(t, 1.0, forecasts[0].AverageDailySales, 0.0001)
}

func TestPredictDemandNoSales(t *testing.T) {
	svc := testService(t, nil)

	forecasts, err := svc.PredictDemand(context.Background(), "vendor-1", 30)
	require.NoError(t, err)
	assert.Empty(t, forecasts)
}

func TestClassifyTrendBand(t *testing.T) {
	assert.Equal(t, TrendStable, classifyTrend(0, 0))
	assert.Equal(t, TrendStable, classifyTrend(10, 11))
	assert.Equal(t, TrendStable, classifyTrend(10, 9))
	assert.Equal(t, TrendIncreasing, classifyTrend(10, 13))
	assert.Equal(t, TrendDecreasing, classifyTrend(10, 7))
	assert.Equal(t, TrendIncreasing, classifyTrend(0, 1))
}
