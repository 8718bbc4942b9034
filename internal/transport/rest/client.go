// Package rest реализует транспортный контракт ядра поверх REST API
// книжного магазина.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Config содержит настройки REST-клиента
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
}

// Client реализует domain.Transport, domain.Catalog и domain.Auth.
// Повторяются только идемпотентные GET-запросы; мутации выполняются
// ровно один раз — решение о повторе остается за вызывающим
type Client struct {
	baseURL string
	reads   *retryablehttp.Client
	writes  *retryablehttp.Client
	logger  *zap.Logger
}

// NewClient создает REST-клиент
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	reads := retryablehttp.NewClient()
	reads.RetryMax = cfg.RetryMax
	reads.HTTPClient.Timeout = cfg.Timeout
	reads.Logger = nil
	// После исчерпания повторов нужен сам ответ: тело 5xx разбирается
	// в типизированную ошибку, а не теряется в "giving up"
	reads.ErrorHandler = retryablehttp.PassthroughErrorHandler

	writes := retryablehttp.NewClient()
	writes.RetryMax = 0
	writes.HTTPClient.Timeout = cfg.Timeout
	writes.Logger = nil
	writes.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: cfg.BaseURL,
		reads:   reads,
		writes:  writes,
		logger:  logger,
	}
}

// CreateOrder создает заказ из позиций корзины
func (c *Client) CreateOrder(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
	payload := struct {
		Items []domain.OrderItemRequest `json:"items"`
	}{Items: items}

	var order domain.Order
	if err := c.do(ctx, c.writes, http.MethodPost, "/api/orders", payload, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ValidateOrder запускает серверную проверку наличия
func (c *Client) ValidateOrder(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
	path := fmt.Sprintf("/api/orders/%d/validate", orderID)

	var result domain.ValidationResult
	if err := c.do(ctx, c.writes, http.MethodPost, path, nil, token, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmOrder подтверждает заказ
func (c *Client) ConfirmOrder(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	path := fmt.Sprintf("/api/orders/%d/confirm", orderID)

	var order domain.Order
	if err := c.do(ctx, c.writes, http.MethodPost, path, nil, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder отменяет заказ
func (c *Client) CancelOrder(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	path := fmt.Sprintf("/api/orders/%d/cancel", orderID)

	var order domain.Order
	if err := c.do(ctx, c.writes, http.MethodDelete, path, nil, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserOrders возвращает страницу заказов пользователя
func (c *Client) GetUserOrders(ctx context.Context, userID int64, page, pageSize int, token string) (*domain.OrdersPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	path := fmt.Sprintf("/api/users/%d/orders?%s", userID, query.Encode())

	var result domain.OrdersPage
	if err := c.do(ctx, c.reads, http.MethodGet, path, nil, token, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrderDetails возвращает позиции заказа
func (c *Client) GetOrderDetails(ctx context.Context, orderID int64, token string) ([]domain.OrderDetail, error) {
	path := fmt.Sprintf("/api/orders/%d/items", orderID)

	var details []domain.OrderDetail
	if err := c.do(ctx, c.reads, http.MethodGet, path, nil, token, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// GetProducts возвращает каталог книг
func (c *Client) GetProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, c.reads, http.MethodGet, "/api/products", nil, token, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// do выполняет запрос и декодирует успешный ответ в out.
// Не-2xx ответ возвращается как *domain.TransportError
func (c *Client) do(ctx context.Context, client *retryablehttp.Client, method, path string, payload any, token string, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("libco client: failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("libco client: failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.New().String())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("libco client: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("libco client: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		transportErr := decodeAPIError(resp.StatusCode, raw)
		c.logger.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return transportErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("libco client: failed to decode response: %w", err)
	}
	return nil
}
