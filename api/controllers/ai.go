package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ghartak/ghartak-backend/api/middleware"
	"github.com/ghartak/ghartak-backend/api/responses"
	"github.com/ghartak/ghartak-backend/api/validators"
	"github.com/ghartak/ghartak-backend/internal/chat"
	"github.com/ghartak/ghartak-backend/internal/insights"
	"github.com/ghartak/ghartak-backend/internal/recommendations"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/openai"
)

type chatRequest struct {
	Message             string           `json:"message" validate:"required"`
	ConversationHistory []openai.Message `json:"conversationHistory"`
}

// Recommendations ranks products by purchase frequency for the caller.
func Recommendations(svc *recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", recommendations.DefaultLimit, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location := strings.TrimSpace(r.URL.Query().Get("location"))

		list, err := svc.Recommend(r.Context(), middleware.UserIDFromContext(r.Context()), location, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"recommendations": list})
	}
}

// VendorInsights returns sales analytics for one vendor.
func VendorInsights(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		vendorID := strings.TrimSpace(chi.URLParam(r, "vendorId"))
		if vendorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required"))
			return
		}

		result, err := svc.ComputeInsights(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"insights": result})
	}
}

// DemandPrediction projects next-week sales per product for one vendor.
func DemandPrediction(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		vendorID := strings.TrimSpace(chi.URLParam(r, "vendorId"))
		if vendorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		predictions, err := svc.PredictDemand(r.Context(), vendorID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{"predictions": predictions})
	}
}

// Chat answers one conversational turn grounded with platform context.
func Chat(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		var req chatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Chat(r.Context(), chat.Input{
			UserID:  middleware.UserIDFromContext(r.Context()),
			Message: req.Message,
			History: req.ConversationHistory,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.M{
			"message":             result.Message,
			"conversationHistory": result.History,
		})
	}
}
