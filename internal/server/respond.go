package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avc/libco-orders/internal/domain"
)

// detailEnvelope — единая форма тела ошибки API: {"detail": ...}.
// Детализация — либо строка, либо объект с error_code
type detailEnvelope struct {
	Detail any `json:"detail"`
}

// stockErrorDetail — объектная детализация конфликта наличия
type stockErrorDetail struct {
	Detail         string                          `json:"detail"`
	ErrorCode      string                          `json:"error_code"`
	AvailableStock map[string]domain.StockConflict `json:"available_stock"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeDetail отвечает ошибкой со строковой детализацией
func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, detailEnvelope{Detail: detail})
}

// writeStockConflict отвечает 409 с кодом INSUFFICIENT_STOCK и
// картой доступного наличия по конфликтным товарам
func writeStockConflict(w http.ResponseWriter, message string, stock map[int64]domain.StockConflict) {
	available := make(map[string]domain.StockConflict, len(stock))
	for id, conflict := range stock {
		available[strconv.FormatInt(id, 10)] = conflict
	}

	writeJSON(w, http.StatusConflict, detailEnvelope{Detail: stockErrorDetail{
		Detail:         message,
		ErrorCode:      "INSUFFICIENT_STOCK",
		AvailableStock: available,
	}})
}
