package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/api/responses"
	"github.com/ghartak/ghartak-backend/api/validators"
	"github.com/ghartak/ghartak-backend/internal/payments"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
)

type createGatewayOrderRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	OrderID  string          `json:"orderId" validate:"required"`
	Currency string          `json:"currency"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	OrderID           string `json:"orderId" validate:"required"`
}

type confirmCODRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CreateGatewayOrder opens a Razorpay order for browser checkout and returns
// the provider order alongside the public key id.
func CreateGatewayOrder(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var req createGatewayOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateGatewayOrder(r.Context(), req.Amount, req.OrderID, req.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{
			"razorpayOrder": result.GatewayOrder,
			"keyId":         result.KeyID,
		})
	}
}

// VerifyPayment checks the gateway callback signature and finalizes the order.
func VerifyPayment(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var req verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.VerifyPayment(r.Context(), payments.VerifyInput{
			GatewayOrderID: req.RazorpayOrderID,
			PaymentID:      req.RazorpayPaymentID,
			Signature:      req.RazorpaySignature,
			OrderID:        req.OrderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"order": order})
	}
}

// ConfirmCOD finalizes a cash-on-delivery order.
func ConfirmCOD(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var req confirmCODRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmCOD(r.Context(), req.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"order": order})
	}
}

// PaymentStats aggregates payment totals across all orders.
func PaymentStats(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		stats, err := svc.ComputeStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"stats": stats})
	}
}
