package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/kvstore"
)

// KeyPrefix addresses every order document in the shared KV namespace.
const KeyPrefix = "order:"

// CreateInput carries the four caller-supplied checkout fields plus the
// authenticated user's identity.
type CreateInput struct {
	UserID        string
	Cart          []LineItem
	Address       Address
	PaymentMethod enums.PaymentMethod
	TotalAmount   decimal.Decimal
}

// StatusPatch is a shallow merge: only non-nil fields are applied.
type StatusPatch struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}

// Repository owns the order id scheme and every write to order documents.
// All other components are read-only consumers.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, patch StatusPatch) (*Order, error)
	// Save persists a status/payment mutation made by the payment
	// orchestrator, refreshing updatedAt. Cart and address stay frozen.
	Save(ctx context.Context, order *Order) error
}

type repository struct {
	store kvstore.Store
	now   func() time.Time
	newID func(time.Time) string
}

// NewRepository builds the order repository over the injected store.
func NewRepository(store kvstore.Store) (Repository, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "kv store required")
	}
	return &repository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewOrderID,
	}, nil
}

func Key(orderID string) string {
	return KeyPrefix + orderID
}

func (r *repository) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Cart) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	for i, item := range input.Cart {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line items need a product id and positive quantity").
				WithDetails(map[string]any{"index": i})
		}
	}
	if input.Address == (Address{}) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive")
	}

	paymentStatus := enums.PaymentStatusAwaitingPayment
	if input.PaymentMethod == enums.PaymentMethodCOD {
		paymentStatus = enums.PaymentStatusPending
	}

	now := r.now()
	order := &Order{
		OrderID:       r.newID(now),
		UserID:        input.UserID,
		Cart:          input.Cart,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   input.TotalAmount,
		Status:        enums.OrderStatusPending,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.put(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Get(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	raw, found, err := r.store.Get(ctx, Key(orderID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return decodeOrder(raw)
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	raw, err := r.store.GetByPrefix(ctx, KeyPrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan orders")
	}
	list := make([]Order, 0, len(raw))
	for _, doc := range raw {
		order, err := decodeOrder(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, *order)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, patch StatusPatch) (*Order, error) {
	order, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", *patch.Status))
		}
		order.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		if !patch.PaymentStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", *patch.PaymentStatus))
		}
		order.PaymentStatus = *patch.PaymentStatus
	}

	if err := r.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Save(ctx context.Context, order *Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "order is required")
	}
	order.UpdatedAt = r.now()
	return r.put(ctx, order)
}

func (r *repository) put(ctx context.Context, order *Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}
	if err := r.store.Set(ctx, Key(order.OrderID), raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write order")
	}
	return nil
}

func decodeOrder(raw []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order document")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}
