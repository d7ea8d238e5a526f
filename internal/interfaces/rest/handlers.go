// Package rest is the thin HTTP adapter in front of the order coordinator.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-order-service/internal/application/services"
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	service *services.OrderService
	logger  *slog.Logger
}

func NewHandlers(service *services.OrderService, logger *slog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, domain.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	lines := make([]services.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.LineInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	view, err := h.service.CreateOrder(r.Context(), req.CustomerName, req.CustomerEmail, lines)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, view)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	view, err := h.service.GetOrder(r.Context(), orderNumber)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListOrders(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, views)
}

func (h *Handlers) RequestPayment(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	paymentMethod := r.URL.Query().Get("paymentMethod")

	view, err := h.service.RequestPayment(r.Context(), orderNumber, paymentMethod)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	status, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		WriteError(w, err)
		return
	}
	paymentID := r.URL.Query().Get("paymentId")

	view, err := h.service.UpdateStatus(r.Context(), orderNumber, status, paymentID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
