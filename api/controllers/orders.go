package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/api/middleware"
	"github.com/ghartak/ghartak-backend/api/responses"
	"github.com/ghartak/ghartak-backend/api/validators"
	internalorders "github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
)

type createOrderRequest struct {
	Cart          []internalorders.LineItem `json:"cart" validate:"required,min=1,dive"`
	Address       internalorders.Address    `json:"address" validate:"required"`
	PaymentMethod string                    `json:"paymentMethod" validate:"required"`
	TotalAmount   decimal.Decimal           `json:"totalAmount" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// CreateOrder places a new order for the authenticated user.
func CreateOrder(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := repo.Create(r.Context(), internalorders.CreateInput{
			UserID:        middleware.UserIDFromContext(r.Context()),
			Cart:          req.Cart,
			Address:       req.Address,
			PaymentMethod: method,
			TotalAmount:   req.TotalAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithOrderID(r.Context(), order.OrderID), "orders.created")
		responses.WriteSuccess(w, responses.M{"order": order})
	}
}

// GetOrder fetches a single order by id.
func GetOrder(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		order, err := repo.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"order": order})
	}
}

// ListOrders returns all orders, newest first.
func ListOrders(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		list, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"orders": list})
	}
}

// UpdateOrderStatus applies a shallow status patch to an order.
func UpdateOrderStatus(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Status == nil && req.PaymentStatus == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status or paymentStatus is required"))
			return
		}

		var patch internalorders.StatusPatch
		if req.Status != nil {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			patch.Status = &status
		}
		if req.PaymentStatus != nil {
			paymentStatus, err := enums.ParsePaymentStatus(*req.PaymentStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			patch.PaymentStatus = &paymentStatus
		}

		order, err := repo.UpdateStatus(r.Context(), orderID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithOrderID(r.Context(), order.OrderID), "orders.status_updated")
		responses.WriteSuccess(w, responses.M{"order": order})
	}
}
