package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/server/memstore"
	"github.com/avc/libco-orders/internal/utils/jwt"
	"github.com/avc/libco-orders/internal/utils/password"
)

// Stores объединяет хранилища, которыми владеет сервер
type Stores struct {
	Users   *memstore.Users
	Catalog *memstore.Catalog
	Orders  *memstore.Orders
}

// NewStores создает пустой набор хранилищ
func NewStores() *Stores {
	catalog := memstore.NewCatalog()
	return &Stores{
		Users:   memstore.NewUsers(),
		Catalog: catalog,
		Orders:  memstore.NewOrders(catalog),
	}
}

// NewRouter собирает роутер API книжного магазина
func NewRouter(stores *Stores, jwtManager *jwt.Manager, logger *zap.Logger) *chi.Mux {
	auth := &authHandler{
		users:      stores.Users,
		hasher:     password.NewBCryptHasher(password.DefaultCost),
		jwtManager: jwtManager,
		logger:     logger,
	}
	orders := &ordersHandler{orders: stores.Orders, logger: logger}
	products := &productsHandler{catalog: stores.Catalog, logger: logger}

	r := chi.NewRouter()

	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", healthHandler{}.Health)

	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(jwtManager))

		r.Get("/api/products", products.List)

		r.Post("/api/orders", orders.CreateOrder)
		r.Post("/api/orders/{orderID}/validate", orders.ValidateOrder)
		r.Post("/api/orders/{orderID}/confirm", orders.ConfirmOrder)
		r.Delete("/api/orders/{orderID}/cancel", orders.CancelOrder)
		r.Get("/api/orders/{orderID}/items", orders.OrderDetails)
		r.Get("/api/users/{userID}/orders", orders.UserOrders)
	})

	return r
}
