package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghartak/ghartak-backend/api/controllers"
	"github.com/ghartak/ghartak-backend/api/middleware"
	"github.com/ghartak/ghartak-backend/internal/chat"
	"github.com/ghartak/ghartak-backend/internal/insights"
	internalorders "github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/internal/payments"
	"github.com/ghartak/ghartak-backend/internal/recommendations"
	"github.com/ghartak/ghartak-backend/pkg/config"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	ordersRepo internalorders.Repository,
	paymentSvc *payments.Service,
	insightsSvc *insights.Service,
	recommendationSvc *recommendations.Service,
	chatSvc *chat.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersRepo, logg))
			r.Get("/", controllers.ListOrders(ordersRepo, logg))
			r.Get("/{orderId}", controllers.GetOrder(ordersRepo, logg))
			r.Patch("/{orderId}", controllers.UpdateOrderStatus(ordersRepo, logg))
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-razorpay-order", controllers.CreateGatewayOrder(paymentSvc, logg))
			r.Post("/verify-razorpay", controllers.VerifyPayment(paymentSvc, logg))
			r.Post("/confirm-cod", controllers.ConfirmCOD(paymentSvc, logg))
			r.Get("/stats", controllers.PaymentStats(paymentSvc, logg))
		})

		r.Route("/ai", func(r chi.Router) {
			r.Get("/recommendations", controllers.Recommendations(recommendationSvc, logg))
			r.Get("/vendor-insights/{vendorId}", controllers.VendorInsights(insightsSvc, logg))
			r.Get("/demand-prediction/{vendorId}", controllers.DemandPrediction(insightsSvc, logg))
			r.Post("/chat", controllers.Chat(chatSvc, logg))
		})
	})

	return r
}
