// Package httpapi exposes the order workflow over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// Engine defines the workflow surface the HTTP layer needs.
type Engine interface {
	Process(ctx context.Context, request string) []domain.Envelope
}

// Server routes HTTP requests into the workflow engine and the order store.
type Server struct {
	engine Engine
	store  ports.OrderStore
	logger *slog.Logger
}

// RequestBody is the payload for POST /v1/requests.
type RequestBody struct {
	Request string `json:"request"`
}

// ErrorBody describes a workflow error signal.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RequestResponse is the reply for POST /v1/requests.
type RequestResponse struct {
	OrderID  string             `json:"order_id,omitempty"`
	Reply    string             `json:"reply"`
	Error    *ErrorBody         `json:"error,omitempty"`
	Messages []domain.Message   `json:"messages,omitempty"`
	Order    *domain.OrderRecord `json:"order,omitempty"`
}

// NewHandler creates the HTTP handler for the service, including health
// and Prometheus metrics endpoints.
func NewHandler(engine Engine, store ports.OrderStore, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/requests", s.submitRequest)
	r.Get("/v1/orders/{orderID}", s.getOrder)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submitRequest handles POST /v1/requests.
func (s *Server) submitRequest(w http.ResponseWriter, r *http.Request) {
	var body RequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snapshots := s.engine.Process(r.Context(), body.Request)
	final := snapshots[len(snapshots)-1]

	resp := RequestResponse{
		Messages: final.Messages,
		Order:    final.Order,
	}
	if final.Order != nil {
		resp.OrderID = final.Order.OrderID
	}
	for i := len(final.Messages) - 1; i >= 0; i-- {
		if final.Messages[i].Role == domain.RoleAssistant {
			resp.Reply = final.Messages[i].Content
			break
		}
	}
	if final.Err != nil {
		resp.Error = &ErrorBody{Kind: string(final.Err.Kind), Message: final.Err.Message}
		s.logger.WarnContext(r.Context(), "request ended with error",
			"kind", string(final.Err.Kind), "order_id", resp.OrderID)
	}

	writeJSON(w, http.StatusOK, resp)
}

// getOrder handles GET /v1/orders/{orderID}.
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	rec, err := s.store.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to load order", "error", err, "order_id", orderID)
		http.Error(w, "Failed to load order", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
