package recommendations

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/internal/orders"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

// DefaultLimit is the page size handed to the UI when none is requested.
const DefaultLimit = 6

// RecommendedProduct is a catalog entry ranked by purchase frequency.
type RecommendedProduct struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VendorID   string          `json:"vendorId"`
	Category   string          `json:"category,omitempty"`
	Image      string          `json:"image,omitempty"`
	Popularity int             `json:"popularity"`
}

// Reader is the read-only slice of the order repository the engine consumes.
type Reader interface {
	List(ctx context.Context) ([]orders.Order, error)
}

// Service ranks products by how often they appear in orders. Personalization
// is purely by exclusion of the user's own purchases; there is no similarity
// model.
type Service struct {
	reader Reader
}

// NewService builds the recommendation engine over the injected order reader.
func NewService(reader Reader) (*Service, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order reader required")
	}
	return &Service{reader: reader}, nil
}

// Recommend returns up to limit products ordered by purchase frequency.
// A location restricts the scan to orders delivered to that city (exact
// match). When excluding the user's own purchases leaves fewer than limit
// items, the unfiltered ranking is returned instead so the UI always gets a
// full page when any history exists.
func (s *Service) Recommend(ctx context.Context, userID, location string, limit int) ([]RecommendedProduct, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	list, err := s.reader.List(ctx)
	if err != nil {
		return nil, err
	}

	frequency := make(map[string]int)
	details := make(map[string]RecommendedProduct)
	var seen []string

	ownPurchases := make(map[string]bool)
	for _, order := range list {
		if userID != "" && order.UserID == userID {
			for _, item := range order.Cart {
				ownPurchases[item.ProductID] = true
			}
		}

		if location != "" && order.Address.City != location {
			continue
		}
		for _, item := range order.Cart {
			if _, ok := details[item.ProductID]; !ok {
				details[item.ProductID] = RecommendedProduct{
					ProductID: item.ProductID,
					Name:      item.Name,
					Price:     item.Price,
					VendorID:  item.VendorID,
					Category:  item.Category,
					Image:     item.Image,
				}
				seen = append(seen, item.ProductID)
			}
			frequency[item.ProductID]++
		}
	}

	ranked := rank(seen, frequency, details, ownPurchases, limit)
	if len(ranked) < limit {
		// Not enough unseen products; re-rank without the exclusion so the
		// page fills up, at the cost of re-showing purchased items.
		return rank(seen, frequency, details, nil, limit), nil
	}
	return ranked, nil
}

func rank(seen []string, frequency map[string]int, details map[string]RecommendedProduct, exclude map[string]bool, limit int) []RecommendedProduct {
	out := make([]RecommendedProduct, 0, len(seen))
	for _, productID := range seen {
		if exclude[productID] {
			continue
		}
		product := details[productID]
		product.Popularity = frequency[productID]
		out = append(out, product)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity > out[j].Popularity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
