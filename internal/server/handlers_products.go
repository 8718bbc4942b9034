package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/server/memstore"
)

// productsHandler обслуживает чтение каталога
type productsHandler struct {
	catalog *memstore.Catalog
	logger  *zap.Logger
}

// List возвращает каталог книг с эффективным наличием
func (h *productsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}

// healthHandler отвечает на проверки живости
type healthHandler struct{}

func (healthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
