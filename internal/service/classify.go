package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/avc/libco-orders/internal/domain"
)

// Classify приводит произвольный сбой транспортной границы к структурной
// ошибке. Функция тотальна: нераспознанная форма дает ErrorKindUnknown с
// запасным сообщением, паник и повторных ошибок не бывает.
//
// Сообщение выбирается по порядку: детализация типизированного ответа →
// текст, выведенный из error_code → текст самой ошибки → запасное
// сообщение вызывающего
func Classify(err error, fallback string) *domain.StructuredError {
	if err == nil {
		return &domain.StructuredError{Kind: domain.ErrorKindUnknown, Message: fallback}
	}

	// Уже классифицированную ошибку возвращаем как есть
	var structured *domain.StructuredError
	if errors.As(err, &structured) {
		return structured
	}

	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return classifyTransport(transportErr, fallback)
	}

	if isNetworkError(err) {
		return &domain.StructuredError{
			Kind:    domain.ErrorKindNetwork,
			Message: messageOrFallback(err.Error(), fallback),
		}
	}

	return &domain.StructuredError{
		Kind:    domain.ErrorKindUnknown,
		Message: messageOrFallback(err.Error(), fallback),
	}
}

// classifyTransport разбирает типизированный не-2xx ответ
func classifyTransport(e *domain.TransportError, fallback string) *domain.StructuredError {
	if len(e.Stock) > 0 || e.ErrorCode == "INSUFFICIENT_STOCK" {
		return &domain.StructuredError{
			Kind:        domain.ErrorKindInsufficientStock,
			Message:     stockMessage(e, fallback),
			StockDetail: e.Stock,
		}
	}

	kind := domain.ErrorKindUnknown
	switch e.StatusCode {
	case 401, 403:
		kind = domain.ErrorKindUnauthorized
	case 400, 404, 409, 422:
		kind = domain.ErrorKindValidationFailed
	}

	message := e.Detail
	if message == "" && e.ErrorCode != "" {
		message = fmt.Sprintf("error del servidor: %s", e.ErrorCode)
	}

	return &domain.StructuredError{
		Kind:    kind,
		Message: messageOrFallback(message, fallback),
	}
}

// stockMessage синтезирует детальный отчет о конфликте наличия:
// по строке на каждый товар, в порядке возрастания product_id
func stockMessage(e *domain.TransportError, fallback string) string {
	if len(e.Stock) == 0 {
		return messageOrFallback(e.Detail, fallback)
	}

	ids := make([]int64, 0, len(e.Stock))
	for id := range e.Stock {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		detail := e.Stock[id]
		parts = append(parts, fmt.Sprintf("%s: disponible %d, solicitado %d",
			detail.ProductTitle, detail.AvailableQuantity, detail.RequestedQuantity))
	}
	return strings.Join(parts, "; ")
}

// isNetworkError распознает сбои доставки: транспорт недоступен,
// таймаут, прерванный контекст
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func messageOrFallback(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
