package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/kvstore"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/razorpay"
)

const (
	defaultCurrency = "INR"
	leasePrefix     = "paylock:"
	leaseTTL        = 10 * time.Second

	codFallbackSuggestion = "Please use Cash on Delivery option."
)

// GatewayClient is the slice of the Razorpay client the orchestrator needs.
type GatewayClient interface {
	CreateOrder(ctx context.Context, params razorpay.OrderParams) (*razorpay.GatewayOrder, error)
	KeyID() string
	KeySecret() string
}

// CreateGatewayOrderResult hands back the provider order plus the public key
// the browser checkout needs.
type CreateGatewayOrderResult struct {
	GatewayOrder *razorpay.GatewayOrder
	KeyID        string
}

// VerifyInput carries the callback fields the gateway posts back through the
// client after payment completes.
type VerifyInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	OrderID        string
}

// Stats aggregates payment totals across every order.
type Stats struct {
	TotalOrders     int             `json:"totalOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	CODOrders       int             `json:"codOrders"`
	OnlineOrders    int             `json:"onlineOrders"`
	PaidOrders      int             `json:"paidOrders"`
	PendingPayments int             `json:"pendingPayments"`
}

// Service drives the two payment paths. It performs no retries of its own;
// retry and fallback decisions belong to the caller.
type Service struct {
	repo    orders.Repository
	store   kvstore.Store
	gateway GatewayClient
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams wires the orchestrator's collaborators. Gateway may be nil
// when credentials are not configured; online payment then fast-fails.
type ServiceParams struct {
	Repo    orders.Repository
	Store   kvstore.Store
	Gateway GatewayClient
	Logger  *logger.Logger
}

// NewService builds the payment orchestrator.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "kv store required")
	}
	return &Service{
		repo:    params.Repo,
		store:   params.Store,
		gateway: params.Gateway,
		logg:    params.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// ConfirmCOD finalizes a cash-on-delivery order: status moves to confirmed,
// payment stays pending because cash changes hands at the doorstep.
func (s *Service) ConfirmCOD(ctx context.Context, orderID string) (*orders.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "this order is not a COD order")
	}

	order.Status = enums.OrderStatusConfirmed
	order.PaymentStatus = enums.PaymentStatusPending
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.OrderID), "payments.cod_confirmed")
	}
	return order, nil
}

// CreateGatewayOrder opens a provider-side transaction for the given amount.
// It fast-fails with a COD suggestion when the gateway is not configured, so
// the checkout flow can switch methods without a doomed remote call.
func (s *Service) CreateGatewayOrder(ctx context.Context, amount decimal.Decimal, orderID, currency string) (*CreateGatewayOrderResult, error) {
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "online payment is not available: payment gateway not configured").
			WithSuggestion(codFallbackSuggestion)
	}
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if currency == "" {
		currency = defaultCurrency
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderParams{
		Amount:   toMinorUnit(amount),
		Currency: currency,
		Receipt:  orderID,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Suggestion() == "" {
			switch typed.Code() {
			case pkgerrors.CodeUpstreamAuth:
				typed.WithSuggestion("Use Cash on Delivery option instead or contact support.")
			case pkgerrors.CodeUpstream:
				typed.WithSuggestion("Please try again or use Cash on Delivery option.")
			}
		}
		return nil, err
	}

	if s.logg != nil {
		ctx := s.logg.WithFields(ctx, map[string]any{
			"order_id":         orderID,
			"gateway_order_id": gatewayOrder.ID,
		})
		s.logg.Info(ctx, "payments.gateway_order_created")
	}
	return &CreateGatewayOrderResult{
		GatewayOrder: gatewayOrder,
		KeyID:        s.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks the callback signature and, on first success, moves
// the order to confirmed/paid and stamps payment details. A failed check
// leaves the order bit-identical, so retrying is always safe. A replay with
// the same gateway order and payment ids returns the stored order unchanged,
// preserving the original paid timestamp.
func (s *Service) VerifyPayment(ctx context.Context, input VerifyInput) (*orders.Order, error) {
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "payment gateway not configured").
			WithSuggestion(codFallbackSuggestion)
	}

	// Concurrent callbacks for one order race on a read-modify-write of the
	// same document; the lease serializes them.
	lease, err := kvstore.NewLease(s.store, leasePrefix+input.OrderID, leaseTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build verification lease")
	}
	acquired, err := lease.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire verification lease")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment verification already in progress for this order")
	}
	defer func() {
		if releaseErr := lease.Release(ctx); releaseErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, input.OrderID), "payments.lease_release_failed")
		}
	}()

	order, err := s.repo.Get(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod == enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "COD orders cannot be verified through the online payment path")
	}

	if !VerifySignature(s.gateway.KeySecret(), input.GatewayOrderID, input.PaymentID, input.Signature) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.OrderID), "payments.signature_rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSignature, "invalid payment signature")
	}

	if order.PaymentStatus == enums.PaymentStatusPaid {
		details := order.PaymentDetails
		if details != nil &&
			details.RazorpayOrderID == input.GatewayOrderID &&
			details.RazorpayPaymentID == input.PaymentID {
			// Duplicate gateway callback: idempotent replay.
			return order, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "order is already paid through a different payment")
	}

	order.Status = enums.OrderStatusConfirmed
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaymentDetails = &orders.PaymentDetails{
		RazorpayOrderID:   input.GatewayOrderID,
		RazorpayPaymentID: input.PaymentID,
		RazorpaySignature: input.Signature,
		PaidAt:            s.now(),
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.OrderID), "payments.verified")
	}
	return order, nil
}

// ComputeStats aggregates payment totals over the full order scan.
func (s *Service) ComputeStats(ctx context.Context) (*Stats, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalRevenue: decimal.Zero}
	for _, order := range list {
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalAmount)
		if order.PaymentMethod == enums.PaymentMethodCOD {
			stats.CODOrders++
		} else {
			stats.OnlineOrders++
		}
		switch order.PaymentStatus {
		case enums.PaymentStatusPaid:
			stats.PaidOrders++
		case enums.PaymentStatusPending, enums.PaymentStatusAwaitingPayment:
			stats.PendingPayments++
		}
	}
	return stats, nil
}

// toMinorUnit converts a major-unit amount to the gateway's integer minor
// unit (paise for INR).
func toMinorUnit(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
