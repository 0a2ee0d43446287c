package insights

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/pkg/config"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

const (
	topProductsLimit = 10
	restockLimit     = 5
)

// ProductStat is a per-product aggregate derived from the order scan. It is a
// view recomputed on every request, never stored.
type ProductStat struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TotalSold     int             `json:"totalSold"`
	Revenue       decimal.Decimal `json:"revenue"`
	LastOrderDate time.Time       `json:"lastOrderDate"`
}

// VendorInsights is the analytics bundle for one vendor.
type VendorInsights struct {
	TotalOrders        int             `json:"totalOrders"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TopSellingProducts []ProductStat   `json:"topSellingProducts"`
	TopRevenueProducts []ProductStat   `json:"topRevenueProducts"`
	RestockSuggestions []ProductStat   `json:"restockSuggestions"`
	ProductStats       []ProductStat   `json:"productStats"`
}

// Reader is the read-only slice of the order repository the engine consumes.
type Reader interface {
	List(ctx context.Context) ([]orders.Order, error)
}

// Service recomputes vendor analytics from scratch on every call. The
// dataset is bounded, so correctness wins over throughput; there is no
// incremental maintenance or caching.
type Service struct {
	reader Reader
	cfg    config.InsightsConfig
	now    func() time.Time
}

// NewService builds the analytics engine over the injected order reader.
func NewService(reader Reader, cfg config.InsightsConfig) (*Service, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order reader required")
	}
	if cfg.RestockWindow <= 0 {
		cfg.RestockWindow = 30 * 24 * time.Hour
	}
	if cfg.RestockMinSold <= 0 {
		cfg.RestockMinSold = 5
	}
	return &Service{
		reader: reader,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// ComputeInsights aggregates this vendor's line items across all orders. An
// order carrying several vendors contributes only its matching lines; totals
// are vendor-attributed, not order grand totals.
func (s *Service) ComputeInsights(ctx context.Context, vendorID string) (*VendorInsights, error) {
	if vendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	list, err := s.reader.List(ctx)
	if err != nil {
		return nil, err
	}

	acc := newStatAccumulator()
	totalOrders := 0
	totalRevenue := decimal.Zero

	for _, order := range list {
		matched := false
		for _, item := range order.Cart {
			if item.VendorID != vendorID {
				continue
			}
			matched = true
			acc.add(item, order.CreatedAt)
			totalRevenue = totalRevenue.Add(item.Subtotal())
		}
		if matched {
			totalOrders++
		}
	}

	stats := acc.ordered()
	cutoff := s.now().Add(-s.cfg.RestockWindow)
	restock := make([]ProductStat, 0)
	for _, stat := range stats {
		if stat.LastOrderDate.Before(cutoff) && stat.TotalSold > s.cfg.RestockMinSold {
			restock = append(restock, stat)
		}
	}

	return &VendorInsights{
		TotalOrders:        totalOrders,
		TotalRevenue:       totalRevenue,
		TopSellingProducts: topBySold(stats, topProductsLimit),
		TopRevenueProducts: topByRevenue(stats, topProductsLimit),
		RestockSuggestions: topBySold(restock, restockLimit),
		ProductStats:       stats,
	}, nil
}

// statAccumulator keeps per-product aggregates in first-seen order so that
// ties sort stably.
type statAccumulator struct {
	order []string
	byID  map[string]*ProductStat
}

func newStatAccumulator() *statAccumulator {
	return &statAccumulator{byID: make(map[string]*ProductStat)}
}

func (a *statAccumulator) add(item orders.LineItem, orderedAt time.Time) {
	stat, ok := a.byID[item.ProductID]
	if !ok {
		stat = &ProductStat{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Revenue:   decimal.Zero,
		}
		if stat.Category == "" {
			stat.Category = "Unknown"
		}
		a.byID[item.ProductID] = stat
		a.order = append(a.order, item.ProductID)
	}
	stat.TotalSold += item.Quantity
	stat.Revenue = stat.Revenue.Add(item.Subtotal())
	if orderedAt.After(stat.LastOrderDate) {
		stat.LastOrderDate = orderedAt
	}
}

func (a *statAccumulator) ordered() []ProductStat {
	out := make([]ProductStat, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	return out
}

func topBySold(stats []ProductStat, limit int) []ProductStat {
	ranked := append([]ProductStat(nil), stats...)
	stableSortDesc(ranked, func(p ProductStat) decimal.Decimal {
		return decimal.NewFromInt(int64(p.TotalSold))
	})
	return truncate(ranked, limit)
}

func topByRevenue(stats []ProductStat, limit int) []ProductStat {
	ranked := append([]ProductStat(nil), stats...)
	stableSortDesc(ranked, func(p ProductStat) decimal.Decimal { return p.Revenue })
	return truncate(ranked, limit)
}

func truncate(stats []ProductStat, limit int) []ProductStat {
	if len(stats) > limit {
		return stats[:limit]
	}
	return stats
}
