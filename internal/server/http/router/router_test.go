package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kamaubrian/dukapay/internal/server/http/handlers"
	testhelpers "github.com/kamaubrian/dukapay/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.CheckoutFacadeStub{}
	engine := Setup(facade, logger)

	body, _ := json.Marshal(map[string]any{"amount": 1500, "phone": "0722000000"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for order create, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for order get, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/orders/order-1/cancel", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for order cancel, got %d", resp.Code)
	}

	body, _ = json.Marshal(map[string]any{"phone": "0722000000", "amount": 1500, "orderId": "order-1"})
	req = httptest.NewRequest(http.MethodPost, "/api/payments/initiate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for payment initiate, got %d", resp.Code)
	}

	callback := []byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_1","ResultCode":0}}}`)
	req = httptest.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(callback))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for callback, got %d", resp.Code)
	}
	if got := facade.Received(); len(got) != 1 || got[0].CorrelationToken != "ws_1" {
		t.Fatalf("expected callback to reach the facade, got %+v", got)
	}
}

var _ handlers.CheckoutFacade = (*testhelpers.CheckoutFacadeStub)(nil)
