package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nexustrade/orderflow/internal/logging"
	"github.com/nexustrade/orderflow/pkg/adapters/memory"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine returns fixed snapshots for every request.
type stubEngine struct {
	snapshots []domain.Envelope
	lastInput string
}

func (s *stubEngine) Process(ctx context.Context, request string) []domain.Envelope {
	s.lastInput = request
	return s.snapshots
}

func successSnapshots() []domain.Envelope {
	rec := &domain.OrderRecord{
		OrderID:    "ord-1",
		CustomerID: "customer_14",
		Status:     "Order Successfully Placed",
	}
	env := domain.NewEnvelope("place my order").
		WithOrder(rec).
		Append(domain.Message{Role: domain.RoleAssistant, Content: "Order Details:\n{}"})
	return []domain.Envelope{env}
}

func TestSubmitRequest_Success(t *testing.T) {
	engine := &stubEngine{snapshots: successSnapshots()}
	handler := NewHandler(engine, memory.NewStore(), logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/v1/requests",
		strings.NewReader(`{"request": "place my order"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "place my order", engine.lastInput)

	var resp RequestResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ord-1", resp.OrderID)
	assert.Contains(t, resp.Reply, "Order Details:")
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Order)
	assert.Equal(t, "Order Successfully Placed", resp.Order.Status)
}

func TestSubmitRequest_WorkflowError(t *testing.T) {
	env := domain.NewEnvelope("order nothing").
		WithError(domain.NewFlowError(domain.ErrExtraction, "empty request received")).
		Append(domain.Message{Role: domain.RoleAssistant, Content: "Error: empty request received"})
	engine := &stubEngine{snapshots: []domain.Envelope{env}}
	handler := NewHandler(engine, memory.NewStore(), logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/v1/requests",
		strings.NewReader(`{"request": ""}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Workflow errors are data, not transport failures.
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RequestResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(domain.ErrExtraction), resp.Error.Kind)
	assert.Contains(t, resp.Reply, "Error:")
}

func TestSubmitRequest_MalformedBody(t *testing.T) {
	handler := NewHandler(&stubEngine{}, memory.NewStore(), logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetOrder(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Put(context.Background(), "ord-7", &domain.OrderRecord{
		OrderID: "ord-7",
		ItemID:  "item_51",
	}))
	handler := NewHandler(&stubEngine{}, store, logging.NewNop())

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/orders/ord-7", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var rec domain.OrderRecord
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
		assert.Equal(t, "item_51", rec.ItemID)
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/orders/nope", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	handler := NewHandler(&stubEngine{}, memory.NewStore(), logging.NewNop())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
