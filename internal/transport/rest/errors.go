package rest

import (
	"encoding/json"
	"strconv"

	"github.com/avc/libco-orders/internal/domain"
)

// errorBody покрывает обе формы тела ошибки API:
// {"detail": "строка"} и {"detail": {"detail": ..., "error_code": ...,
// "available_stock": {...}}}
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// errorDetail представляет вложенный объект детализации
type errorDetail struct {
	Detail         string                   `json:"detail"`
	Message        string                   `json:"message"`
	ErrorCode      string                   `json:"error_code"`
	AvailableStock map[string]stockConflict `json:"available_stock"`
}

type stockConflict struct {
	ProductID         int64  `json:"product_id"`
	ProductTitle      string `json:"product_title"`
	AvailableQuantity int    `json:"available_quantity"`
	RequestedQuantity int    `json:"requested_quantity"`
}

// decodeAPIError разбирает тело не-2xx ответа в типизированную ошибку.
// Неразобранное тело не считается сбоем: возвращается ошибка только
// со статусом, классификатор даст ей запасное сообщение
func decodeAPIError(statusCode int, body []byte) *domain.TransportError {
	transportErr := &domain.TransportError{StatusCode: statusCode}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return transportErr
	}

	// Сначала простая строка
	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		transportErr.Detail = message
		return transportErr
	}

	// Затем объект с error_code и детализацией наличия
	var detail errorDetail
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return transportErr
	}

	transportErr.ErrorCode = detail.ErrorCode
	transportErr.Detail = detail.Detail
	if transportErr.Detail == "" {
		transportErr.Detail = detail.Message
	}

	if len(detail.AvailableStock) > 0 {
		transportErr.Stock = make(map[int64]domain.StockConflict, len(detail.AvailableStock))
		for key, conflict := range detail.AvailableStock {
			id := conflict.ProductID
			if id == 0 {
				// Ключи карты приходят строками
				parsed, err := strconv.ParseInt(key, 10, 64)
				if err != nil {
					continue
				}
				id = parsed
			}
			transportErr.Stock[id] = domain.StockConflict{
				ProductID:         id,
				ProductTitle:      conflict.ProductTitle,
				AvailableQuantity: conflict.AvailableQuantity,
				RequestedQuantity: conflict.RequestedQuantity,
			}
		}
	}

	return transportErr
}
