package domain

import (
	"errors"
	"fmt"
)

// Ошибки жизненного цикла заказа
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderTerminal  = errors.New("order is in terminal status")
)

// ErrorKind классифицирует сбой транспортной границы
type ErrorKind string

const (
	ErrorKindNetwork           ErrorKind = "NETWORK"
	ErrorKindValidationFailed  ErrorKind = "VALIDATION_FAILED"
	ErrorKindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	ErrorKindUnauthorized      ErrorKind = "UNAUTHORIZED"
	ErrorKindUnknown           ErrorKind = "UNKNOWN"
)

// StructuredError представляет классифицированную ошибку транспорта.
// StockDetail заполняется только для ErrorKindInsufficientStock
type StructuredError struct {
	Kind        ErrorKind               `json:"kind"`
	Message     string                  `json:"message"`
	StockDetail map[int64]StockConflict `json:"stock_detail,omitempty"`
}

func (e *StructuredError) Error() string {
	return e.Message
}

// TransportError представляет типизированный сбой REST-границы:
// не-2xx ответ с разобранным телом. Сетевые сбои (транспорт недоступен,
// не разобрано тело) возвращаются как обычные обернутые ошибки
type TransportError struct {
	StatusCode int
	ErrorCode  string
	Detail     string
	Stock      map[int64]StockConflict
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("transport: status %d", e.StatusCode)
}
