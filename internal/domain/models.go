package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus представляет статус заказа.
// Значения передаются по сети как есть, без перевода на стороне ядра
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusCheck     OrderStatus = "check"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsTerminal сообщает, допускает ли статус дальнейшие переходы
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// CartLine представляет позицию корзины.
// SubTotal — производное значение, пересчитывается при каждой мутации
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SubTotal  decimal.Decimal `json:"sub_total"`
}

// Cart представляет несданную корзину пользователя.
// Items хранит не более одной позиции на product_id, в порядке добавления
type Cart struct {
	Items  []CartLine      `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Status OrderStatus     `json:"status"`
}

// Order представляет отправленный заказ с серверным жизненным циклом
type Order struct {
	OrderID    int64           `json:"order_id"`
	ItemsCount int             `json:"items_count"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItemRequest представляет позицию при создании заказа.
// Цена не передается: она авторитетна на стороне сервера
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ValidationResult представляет результат серверной проверки наличия
type ValidationResult struct {
	OrderID  int64       `json:"order_id"`
	Status   OrderStatus `json:"status"`
	Messages []string    `json:"messages,omitempty"`
}

// OrderDetail представляет позицию заказа в детальном отчете
type OrderDetail struct {
	OrderItemID  int64           `json:"order_item_id"`
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SubTotal     decimal.Decimal `json:"sub_total"`
}

// OrdersPage представляет страницу списка заказов пользователя
type OrdersPage struct {
	Orders      []Order `json:"orders"`
	TotalOrders int     `json:"total_orders"`
	Page        int     `json:"page"`
	PageSize    int     `json:"page_size"`
	TotalPages  int     `json:"total_pages"`
	HasNext     bool    `json:"has_next"`
	HasPrevious bool    `json:"has_previous"`
}

// Product представляет книгу каталога
type Product struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	ISBN      string          `json:"isbn"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available_quantity"`
}

// StockConflict описывает одну позицию с нехваткой наличия
type StockConflict struct {
	ProductID         int64  `json:"product_id"`
	ProductTitle      string `json:"product_title"`
	AvailableQuantity int    `json:"available_quantity"`
	RequestedQuantity int    `json:"requested_quantity"`
}
