package memstore

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/avc/libco-orders/internal/domain"
)

// Ошибки хранилища
var (
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidISBN       = errors.New("invalid isbn")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// InsufficientStockError сигнализирует о нехватке наличия при валидации
// заказа и несет детализацию по каждому конфликтному товару
type InsufficientStockError struct {
	Stock map[int64]domain.StockConflict
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, 0, len(e.Stock))
	for id := range e.Stock {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	sort.Strings(ids)
	return fmt.Sprintf("Stock insuficiente para los productos con ID: %s", strings.Join(ids, ", "))
}
