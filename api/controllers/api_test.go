package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghartak/ghartak-backend/api/routes"
	"github.com/ghartak/ghartak-backend/internal/chat"
	"github.com/ghartak/ghartak-backend/internal/insights"
	internalorders "github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/internal/payments"
	"github.com/ghartak/ghartak-backend/internal/recommendations"
	pkgauth "github.com/ghartak/ghartak-backend/pkg/auth"
	"github.com/ghartak/ghartak-backend/pkg/config"
	"github.com/ghartak/ghartak-backend/pkg/kvstore"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/metrics"
	"github.com/ghartak/ghartak-backend/pkg/razorpay"
)

const stubKeySecret = "stub-secret"

type stubGateway struct {
	createOrder func(ctx context.Context, params razorpay.OrderParams) (*razorpay.GatewayOrder, error)
}

func (s *stubGateway) CreateOrder(ctx context.Context, params razorpay.OrderParams) (*razorpay.GatewayOrder, error) {
	if s.createOrder == nil {
		panic("not implemented")
	}
	return s.createOrder(ctx, params)
}

func (s *stubGateway) KeyID() string     { return "rzp_test_stub" }
func (s *stubGateway) KeySecret() string { return stubKeySecret }

type apiFixture struct {
	handler http.Handler
	cfg     *config.Config
	store   *kvstore.MemoryStore
	repo    internalorders.Repository
}

func newAPIFixture(t *testing.T, gateway payments.GatewayClient) *apiFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "ghartak-identity", ExpirationMinutes: 60}
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"*"}}

	logg := logger.New(logger.Options{ServiceName: "test"})
	store := kvstore.NewMemory()

	repo, err := internalorders.NewRepository(store)
	require.NoError(t, err)

	paymentSvc, err := payments.NewService(payments.ServiceParams{Repo: repo, Store: store, Gateway: gateway, Logger: logg})
	require.NoError(t, err)

	insightsSvc, err := insights.NewService(repo, cfg.Insights)
	require.NoError(t, err)

	recommendationSvc, err := recommendations.NewService(repo)
	require.NoError(t, err)

	chatSvc, err := chat.NewService(repo, nil, logg)
	require.NoError(t, err)

	handler := routes.NewRouter(cfg, logg, store, metrics.NewHTTPMetrics(), repo, paymentSvc, insightsSvc, recommendationSvc, chatSvc)
	return &apiFixture{handler: handler, cfg: cfg, store: store, repo: repo}
}

func (f *apiFixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(f.cfg.JWT, time.Now().UTC(), userID)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func codOrderPayload(total int) map[string]any {
	return map[string]any{
		"cart": []map[string]any{
			{"productId": "prod-1", "name": "Basmati Rice 5kg", "price": total, "quantity": 1, "vendorId": "vendor-1"},
		},
		"address": map[string]any{
			"name": "Asha", "phone": "9999999999", "street": "12 MG Road", "city": "Pune", "pincode": "411001",
		},
		"paymentMethod": "cod",
		"totalAmount":   total,
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["success"])
}

func TestOrdersRequireBearerToken(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCODCheckoutFlow(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	rec := f.do(t, http.MethodPost, "/orders", token, codOrderPayload(450))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeJSON(t, rec)["order"].(map[string]any)
	orderID := created["orderId"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "pending", created["paymentStatus"])
	assert.Equal(t, "user-1", created["userId"])

	rec = f.do(t, http.MethodPost, "/payment/confirm-cod", token, map[string]any{"orderId": orderID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decodeJSON(t, rec)["order"].(map[string]any)
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.Equal(t, "pending", confirmed["paymentStatus"])

	rec = f.do(t, http.MethodGet, "/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/payment/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeJSON(t, rec)["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["totalOrders"])
	assert.Equal(t, float64(1), stats["codOrders"])
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	payload := codOrderPayload(450)
	payload["cart"] = []map[string]any{}
	rec := f.do(t, http.MethodPost, "/orders", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["success"])
}

func TestGetOrderNotFound(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	rec := f.do(t, http.MethodGet, "/orders/ORD-0-MISSING", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	rec := f.do(t, http.MethodPost, "/orders", token, codOrderPayload(450))
	require.Equal(t, http.StatusOK, rec.Code)
	orderID := decodeJSON(t, rec)["order"].(map[string]any)["orderId"].(string)

	rec = f.do(t, http.MethodPatch, "/orders/"+orderID, token, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON(t, rec)["order"].(map[string]any)
	assert.Equal(t, "cancelled", updated["status"])
	assert.Equal(t, "pending", updated["paymentStatus"])

	rec = f.do(t, http.MethodPatch, "/orders/"+orderID, token, map[string]any{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnlinePaymentUnconfiguredGateway(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	rec := f.do(t, http.MethodPost, "/payment/create-razorpay-order", token, map[string]any{
		"amount":  450,
		"orderId": "ORD-1-ABCDEFG",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Please use Cash on Delivery option.", body["suggestion"])
}

func TestOnlinePaymentFlow(t *testing.T) {
	gateway := &stubGateway{
		createOrder: func(_ context.Context, params razorpay.OrderParams) (*razorpay.GatewayOrder, error) {
			return &razorpay.GatewayOrder{ID: "order_stub1", Amount: params.Amount, Currency: params.Currency, Receipt: params.Receipt, Status: "created"}, nil
		},
	}
	f := newAPIFixture(t, gateway)
	token := f.token(t, "user-1")

	payload := codOrderPayload(450)
	payload["paymentMethod"] = "upi"
	rec := f.do(t, http.MethodPost, "/orders", token, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON(t, rec)["order"].(map[string]any)
	orderID := created["orderId"].(string)
	assert.Equal(t, "awaiting_payment", created["paymentStatus"])

	rec = f.do(t, http.MethodPost, "/payment/create-razorpay-order", token, map[string]any{
		"amount":  450,
		"orderId": orderID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Equal(t, "rzp_test_stub", body["keyId"])
	gatewayOrder := body["razorpayOrder"].(map[string]any)
	assert.Equal(t, "order_stub1", gatewayOrder["id"])
	assert.Equal(t, float64(45000), gatewayOrder["amount"])

	rec = f.do(t, http.MethodPost, "/payment/verify-razorpay", token, map[string]any{
		"razorpay_order_id":   "order_stub1",
		"razorpay_payment_id": "pay_stub1",
		"razorpay_signature":  payments.ComputeSignature(stubKeySecret, "order_stub1", "pay_stub1"),
		"orderId":             orderID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	verified := decodeJSON(t, rec)["order"].(map[string]any)
	assert.Equal(t, "confirmed", verified["status"])
	assert.Equal(t, "paid", verified["paymentStatus"])

	rec = f.do(t, http.MethodPost, "/payment/verify-razorpay", token, map[string]any{
		"razorpay_order_id":   "order_stub1",
		"razorpay_payment_id": "pay_stub1",
		"razorpay_signature":  "0000000000000000000000000000000000000000000000000000000000000000",
		"orderId":             orderID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)
	token := f.token(t, "user-1")

	for i := 0; i < 3; i++ {
		payload := codOrderPayload(100 + i)
		payload["cart"].([]map[string]any)[0]["productId"] = fmt.Sprintf("prod-%d", i)
		rec := f.do(t, http.MethodPost, "/orders", token, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/ai/recommendations?limit=2", f.token(t, "user-2"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	recs := decodeJSON(t, rec)["recommendations"].([]any)
	assert.Len(t, recs, 2)

	rec = f.do(t, http.MethodGet, "/ai/vendor-insights/vendor-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeJSON(t, rec)["insights"].(map[string]any)
	assert.Equal(t, float64(3), result["totalOrders"])

	rec = f.do(t, http.MethodGet, "/ai/demand-prediction/vendor-1?days=30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	predictions := decodeJSON(t, rec)["predictions"].([]any)
	assert.Len(t, predictions, 3)

	rec = f.do(t, http.MethodGet, "/ai/demand-prediction/vendor-1?days=notanumber", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Chat service has no model client wired: 503 with a suggestion.
	rec = f.do(t, http.MethodPost, "/ai/chat", token, map[string]any{"message": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, decodeJSON(t, rec)["suggestion"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	f.do(t, http.MethodGet, "/health/live", "", nil)

	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
