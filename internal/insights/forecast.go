package insights

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

// Trend labels the direction of a product's recent demand.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// DemandForecast is a simple moving-average projection for one product.
type DemandForecast struct {
	ProductID              string  `json:"productId"`
	ProductName            string  `json:"productName"`
	AverageDailySales      float64 `json:"averageDailySales"`
	PredictedNextWeekSales int     `json:"predictedNextWeekSales"`
	Trend                  Trend   `json:"trend"`
}

const defaultForecastDays = 30

// PredictDemand buckets the vendor's sales over the trailing window into
// per-product daily quantities and projects the next week from the daily
// average. The trend compares the window's two halves.
func (s *Service) PredictDemand(ctx context.Context, vendorID string, days int) ([]DemandForecast, error) {
	if vendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if days <= 0 {
		days = defaultForecastDays
	}

	list, err := s.reader.List(ctx)
	if err != nil {
		return nil, err
	}

	end := s.now()
	start := end.AddDate(0, 0, -days)
	midpoint := start.Add(end.Sub(start) / 2)

	type productWindow struct {
		name       string
		total      int
		firstHalf  int
		secondHalf int
	}
	windows := make(map[string]*productWindow)
	var seen []string

	for _, order := range list {
		if order.CreatedAt.Before(start) || order.CreatedAt.After(end) {
			continue
		}
		for _, item := range order.Cart {
			if item.VendorID != vendorID {
				continue
			}
			window, ok := windows[item.ProductID]
			if !ok {
				window = &productWindow{name: item.Name}
				windows[item.ProductID] = window
				seen = append(seen, item.ProductID)
			}
			window.total += item.Quantity
			if order.CreatedAt.Before(midpoint) {
				window.firstHalf += item.Quantity
			} else {
				window.secondHalf += item.Quantity
			}
		}
	}

	sort.Strings(seen)
	forecasts := make([]DemandForecast, 0, len(seen))
	for _, productID := range seen {
		window := windows[productID]
		average := float64(window.total) / float64(days)
		forecasts = append(forecasts, DemandForecast{
			ProductID:              productID,
			ProductName:            window.name,
			AverageDailySales:      average,
			PredictedNextWeekSales: int(math.Round(average * 7)),
			Trend:                  classifyTrend(window.firstHalf, window.secondHalf),
		})
	}
	return forecasts, nil
}

// classifyTrend flags a move only beyond a 20% band, so small fluctuations
// read as stable.
func classifyTrend(firstHalf, secondHalf int) Trend {
	if firstHalf == 0 && secondHalf == 0 {
		return TrendStable
	}
	first := float64(firstHalf)
	second := float64(secondHalf)
	switch {
	case second > first*1.2:
		return TrendIncreasing
	case second < first*0.8:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// stableSortDesc orders stats descending by the extracted measure while
// preserving first-seen order among equals.
func stableSortDesc(stats []ProductStat, measure func(ProductStat) decimal.Decimal) {
	sort.SliceStable(stats, func(i, j int) bool {
		return measure(stats[i]).GreaterThan(measure(stats[j]))
	})
}
