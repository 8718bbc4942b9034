package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/server/memstore"
)

// ordersHandler обслуживает жизненный цикл заказов
type ordersHandler struct {
	orders *memstore.Orders
	logger *zap.Logger
}

type createOrderRequest struct {
	Items []domain.OrderItemRequest `json:"items"`
}

// CreateOrder создает заказ в статусе draft
func (h *ordersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Token no contiene user_id")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Solicitud mal formada")
		return
	}

	order, err := h.orders.Create(userID, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, memstore.ErrEmptyOrder):
			writeDetail(w, http.StatusBadRequest, "El pedido no contiene posiciones válidas")
		case errors.Is(err, memstore.ErrProductNotFound):
			writeDetail(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("failed to create order", zap.Error(err))
			writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ValidateOrder проверяет наличие и резервирует количество
func (h *ordersHandler) ValidateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.ownedOrderID(w, r)
	if !ok {
		return
	}

	order, messages, err := h.orders.Validate(orderID)
	if err != nil {
		var stockErr *memstore.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			writeStockConflict(w, stockErr.Error(), stockErr.Stock)
		case errors.Is(err, memstore.ErrOrderNotFound):
			writeDetail(w, http.StatusNotFound, fmt.Sprintf("Orden con ID %d no encontrada", orderID))
		case errors.Is(err, memstore.ErrInvalidTransition):
			writeDetail(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to validate order", zap.Int64("order_id", orderID), zap.Error(err))
			writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	writeJSON(w, http.StatusOK, domain.ValidationResult{
		OrderID:  order.OrderID,
		Status:   order.Status,
		Messages: messages,
	})
}

// ConfirmOrder списывает резерв и завершает заказ
func (h *ordersHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.ownedOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Confirm(orderID)
	if err != nil {
		h.writeTransitionError(w, orderID, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// CancelOrder отменяет заказ и освобождает резерв
func (h *ordersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.ownedOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Cancel(orderID)
	if err != nil {
		h.writeTransitionError(w, orderID, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// OrderDetails возвращает позиции заказа
func (h *ordersHandler) OrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.ownedOrderID(w, r)
	if !ok {
		return
	}

	details, err := h.orders.Details(orderID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Orden con ID %d no encontrada", orderID))
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// UserOrders возвращает страницу заказов пользователя
func (h *ordersHandler) UserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Token no contiene user_id")
		return
	}

	pathUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || pathUserID != userID {
		// Чужие заказы не раскрываются
		writeDetail(w, http.StatusForbidden, "No autorizado para ver estos pedidos")
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	writeJSON(w, http.StatusOK, h.orders.PageByUser(userID, page, pageSize))
}

// ownedOrderID разбирает id заказа из пути и проверяет владельца.
// Чужой или несуществующий заказ одинаково отвечают 404
func (h *ordersHandler) ownedOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := getUserID(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Token no contiene user_id")
		return 0, false
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Identificador de orden inválido")
		return 0, false
	}

	owner, err := h.orders.Owner(orderID)
	if err != nil || owner != userID {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Orden con ID %d no encontrada", orderID))
		return 0, false
	}

	return orderID, true
}

func (h *ordersHandler) writeTransitionError(w http.ResponseWriter, orderID int64, err error) {
	switch {
	case errors.Is(err, memstore.ErrOrderNotFound):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Orden con ID %d no encontrada", orderID))
	case errors.Is(err, memstore.ErrInvalidTransition):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("order operation failed", zap.Int64("order_id", orderID), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
