package domain

import "context"

// Transport определяет контракт сетевого коллаборатора.
// Ядро не выполняет ввод-вывод само: все вызовы делегируются реализации,
// внедряемой при конструировании оркестратора
type Transport interface {
	CreateOrder(ctx context.Context, items []OrderItemRequest, token string) (*Order, error)
	ValidateOrder(ctx context.Context, orderID int64, token string) (*ValidationResult, error)
	ConfirmOrder(ctx context.Context, orderID int64, token string) (*Order, error)
	CancelOrder(ctx context.Context, orderID int64, token string) (*Order, error)
	GetUserOrders(ctx context.Context, userID int64, page, pageSize int, token string) (*OrdersPage, error)
	GetOrderDetails(ctx context.Context, orderID int64, token string) ([]OrderDetail, error)
}

// Catalog определяет методы чтения каталога книг
type Catalog interface {
	GetProducts(ctx context.Context, token string) ([]Product, error)
}

// Auth определяет методы получения учетных данных
type Auth interface {
	Register(ctx context.Context, login, password string) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
}
