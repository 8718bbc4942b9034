package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/state"
)

// transportMock реализует domain.Transport через подменяемые функции
type transportMock struct {
	createFn   func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error)
	validateFn func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error)
	confirmFn  func(ctx context.Context, orderID int64, token string) (*domain.Order, error)
	cancelFn   func(ctx context.Context, orderID int64, token string) (*domain.Order, error)
	ordersFn   func(ctx context.Context, userID int64, page, pageSize int, token string) (*domain.OrdersPage, error)
	detailsFn  func(ctx context.Context, orderID int64, token string) ([]domain.OrderDetail, error)

	createCalls  int
	confirmCalls int
}

func (m *transportMock) CreateOrder(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
	m.createCalls++
	return m.createFn(ctx, items, token)
}

func (m *transportMock) ValidateOrder(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
	return m.validateFn(ctx, orderID, token)
}

func (m *transportMock) ConfirmOrder(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	m.confirmCalls++
	return m.confirmFn(ctx, orderID, token)
}

func (m *transportMock) CancelOrder(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	return m.cancelFn(ctx, orderID, token)
}

func (m *transportMock) GetUserOrders(ctx context.Context, userID int64, page, pageSize int, token string) (*domain.OrdersPage, error) {
	return m.ordersFn(ctx, userID, page, pageSize, token)
}

func (m *transportMock) GetOrderDetails(ctx context.Context, orderID int64, token string) ([]domain.OrderDetail, error) {
	return m.detailsFn(ctx, orderID, token)
}

func newTestOrchestrator(transport *transportMock) (*Orchestrator, *state.Store) {
	store := state.NewStore()
	return NewOrchestrator(transport, store, zap.NewNop()), store
}

func fillCart(o *Orchestrator) {
	o.AddToCart(domain.Product{ProductID: 1, Title: "Rayuela", Price: decimal.RequireFromString("41000")}, 2)
}

func TestOrchestrator_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty cart is rejected before any network call", func(t *testing.T) {
		transport := &transportMock{}
		orchestrator, store := newTestOrchestrator(transport)

		result, err := orchestrator.Submit(ctx, "token")

		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		assert.Nil(t, result)
		assert.Zero(t, transport.createCalls)
		assert.Empty(t, store.State().Orders)
	})

	t.Run("Create failure classifies and records the error", func(t *testing.T) {
		transport := &transportMock{
			createFn: func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
				return nil, errors.New("boom")
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		fillCart(orchestrator)

		result, err := orchestrator.Submit(ctx, "token")

		assert.Nil(t, result)
		var structured *domain.StructuredError
		require.ErrorAs(t, err, &structured)
		assert.Equal(t, domain.ErrorKindUnknown, structured.Kind)

		snapshot := store.State()
		assert.Empty(t, snapshot.Orders)
		assert.NotEmpty(t, snapshot.CurrentOrder.Items, "cart survives a failed create")
		require.NotNil(t, snapshot.Err)
		assert.False(t, snapshot.IsLoading)
	})

	t.Run("Create sends only product ids and quantities", func(t *testing.T) {
		var sent []domain.OrderItemRequest
		transport := &transportMock{
			createFn: func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
				sent = items
				return &domain.Order{OrderID: 42, Status: domain.OrderStatusDraft, ItemsCount: 2}, nil
			},
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return &domain.ValidationResult{OrderID: orderID, Status: domain.OrderStatusCheck}, nil
			},
		}
		orchestrator, _ := newTestOrchestrator(transport)
		fillCart(orchestrator)

		_, err := orchestrator.Submit(ctx, "token")

		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, domain.OrderItemRequest{ProductID: 1, Quantity: 2}, sent[0])
	})

	t.Run("Successful submit validates and consumes the cart", func(t *testing.T) {
		transport := &transportMock{
			createFn: func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
				return &domain.Order{OrderID: 42, Status: domain.OrderStatusDraft, ItemsCount: 2}, nil
			},
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return &domain.ValidationResult{OrderID: orderID, Status: domain.OrderStatusCheck}, nil
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		fillCart(orchestrator)

		result, err := orchestrator.Submit(ctx, "token")

		require.NoError(t, err)
		require.NotNil(t, result.Order)
		assert.Equal(t, int64(42), result.Order.OrderID)
		require.NotNil(t, result.Validation)
		assert.Equal(t, domain.OrderStatusCheck, result.Validation.Status)
		assert.Nil(t, result.Err)

		snapshot := store.State()
		require.Len(t, snapshot.Orders, 1)
		assert.Equal(t, domain.OrderStatusCheck, snapshot.Orders[0].Status)
		assert.Empty(t, snapshot.CurrentOrder.Items)
		assert.False(t, snapshot.IsLoading)
		assert.False(t, snapshot.IsValidating)
	})

	t.Run("Stock conflict keeps the created order in draft", func(t *testing.T) {
		transport := &transportMock{
			createFn: func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
				return &domain.Order{OrderID: 42, Status: domain.OrderStatusDraft, ItemsCount: 5}, nil
			},
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return nil, &domain.TransportError{
					StatusCode: 409,
					ErrorCode:  "INSUFFICIENT_STOCK",
					Stock: map[int64]domain.StockConflict{
						7: {ProductID: 7, ProductTitle: "Rayuela", AvailableQuantity: 2, RequestedQuantity: 5},
					},
				}
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		fillCart(orchestrator)

		result, err := orchestrator.Submit(ctx, "token")

		// Частичный исход: заказ создан, ошибка валидации внутри результата
		require.NoError(t, err)
		require.NotNil(t, result.Order)
		assert.Equal(t, int64(42), result.Order.OrderID)
		assert.Nil(t, result.Validation)
		require.NotNil(t, result.Err)
		assert.Equal(t, domain.ErrorKindInsufficientStock, result.Err.Kind)
		require.Contains(t, result.Err.StockDetail, int64(7))
		assert.Equal(t, 5, result.Err.StockDetail[7].RequestedQuantity)

		snapshot := store.State()
		require.Len(t, snapshot.Orders, 1)
		assert.Equal(t, domain.OrderStatusDraft, snapshot.Orders[0].Status)
		require.NotNil(t, snapshot.Err)
		assert.Equal(t, domain.ErrorKindInsufficientStock, snapshot.Err.Kind)
		assert.False(t, snapshot.IsLoading)
		assert.False(t, snapshot.IsValidating)
	})

	t.Run("Second submit while first is in flight is rejected", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		transport := &transportMock{
			createFn: func(ctx context.Context, items []domain.OrderItemRequest, token string) (*domain.Order, error) {
				close(started)
				<-release
				return &domain.Order{OrderID: 1, Status: domain.OrderStatusDraft}, nil
			},
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return &domain.ValidationResult{OrderID: orderID, Status: domain.OrderStatusCheck}, nil
			},
		}
		orchestrator, _ := newTestOrchestrator(transport)
		fillCart(orchestrator)

		done := make(chan error, 1)
		go func() {
			_, err := orchestrator.Submit(ctx, "token")
			done <- err
		}()

		<-started
		_, err := orchestrator.Submit(ctx, "token")
		assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

		close(release)
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("first submit did not finish")
		}

		assert.Equal(t, 1, transport.createCalls)
	})
}

func TestOrchestrator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success updates order status before storing result", func(t *testing.T) {
		transport := &transportMock{
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return &domain.ValidationResult{
					OrderID:  orderID,
					Status:   domain.OrderStatusCheck,
					Messages: []string{"Stock reservado"},
				}, nil
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		store.Dispatch(state.SetOrders{Orders: []domain.Order{{OrderID: 9, Status: domain.OrderStatusDraft}}})

		result, err := orchestrator.Validate(ctx, 9, "token")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCheck, result.Status)

		snapshot := store.State()
		assert.Equal(t, domain.OrderStatusCheck, snapshot.Orders[0].Status)
		require.NotNil(t, snapshot.ValidationResult)
		assert.Equal(t, []string{"Stock reservado"}, snapshot.ValidationResult.Messages)
		assert.False(t, snapshot.IsValidating)
	})

	t.Run("Failure records structured error and drops flags", func(t *testing.T) {
		transport := &transportMock{
			validateFn: func(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
				return nil, &domain.TransportError{StatusCode: 422, Detail: "Orden con ID 9 no encontrada"}
			},
		}
		orchestrator, store := newTestOrchestrator(transport)

		result, err := orchestrator.Validate(ctx, 9, "token")

		assert.Nil(t, result)
		var structured *domain.StructuredError
		require.ErrorAs(t, err, &structured)
		assert.Equal(t, domain.ErrorKindValidationFailed, structured.Kind)

		snapshot := store.State()
		assert.False(t, snapshot.IsValidating)
		assert.False(t, snapshot.IsLoading)
		assert.Nil(t, snapshot.ValidationResult)
	})
}

func TestOrchestrator_ConfirmCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirm moves order to completed", func(t *testing.T) {
		transport := &transportMock{
			confirmFn: func(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
				return &domain.Order{OrderID: orderID, Status: domain.OrderStatusCompleted, ItemsCount: 2}, nil
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		store.Dispatch(state.SetOrders{Orders: []domain.Order{{OrderID: 5, Status: domain.OrderStatusCheck}}})

		order, err := orchestrator.Confirm(ctx, 5, "token")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.Equal(t, domain.OrderStatusCompleted, store.State().Orders[0].Status)
	})

	t.Run("Terminal order is rejected without a network call", func(t *testing.T) {
		transport := &transportMock{}
		orchestrator, store := newTestOrchestrator(transport)
		store.Dispatch(state.SetOrders{Orders: []domain.Order{{OrderID: 5, Status: domain.OrderStatusCompleted}}})

		_, err := orchestrator.Confirm(ctx, 5, "token")
		assert.ErrorIs(t, err, domain.ErrOrderTerminal)

		_, err = orchestrator.Cancel(ctx, 5, "token")
		assert.ErrorIs(t, err, domain.ErrOrderTerminal)

		assert.Zero(t, transport.confirmCalls)
	})

	t.Run("Unknown order is delegated to the server", func(t *testing.T) {
		transport := &transportMock{
			cancelFn: func(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
				return nil, &domain.TransportError{StatusCode: 404, Detail: "Orden con ID 77 no encontrada"}
			},
		}
		orchestrator, _ := newTestOrchestrator(transport)

		_, err := orchestrator.Cancel(ctx, 77, "token")

		var structured *domain.StructuredError
		require.ErrorAs(t, err, &structured)
		assert.Equal(t, domain.ErrorKindValidationFailed, structured.Kind)
	})

	t.Run("Cancel moves order to canceled", func(t *testing.T) {
		transport := &transportMock{
			cancelFn: func(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
				return &domain.Order{OrderID: orderID, Status: domain.OrderStatusCanceled}, nil
			},
		}
		orchestrator, store := newTestOrchestrator(transport)
		store.Dispatch(state.SetOrders{Orders: []domain.Order{{OrderID: 6, Status: domain.OrderStatusCheck}}})

		order, err := orchestrator.Cancel(ctx, 6, "token")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCanceled, order.Status)
		assert.Equal(t, domain.OrderStatusCanceled, store.State().Orders[0].Status)
	})
}

func TestOrchestrator_FetchOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Success replaces the order list", func(t *testing.T) {
		transport := &transportMock{
			ordersFn: func(ctx context.Context, userID int64, page, pageSize int, token string) (*domain.OrdersPage, error) {
				return &domain.OrdersPage{
					Orders:      []domain.Order{{OrderID: 2}, {OrderID: 1}},
					TotalOrders: 2,
					Page:        page,
					PageSize:    pageSize,
					TotalPages:  1,
				}, nil
			},
		}
		orchestrator, store := newTestOrchestrator(transport)

		result := orchestrator.FetchOrders(ctx, 1, 1, 10, "token")

		require.NotNil(t, result)
		assert.Equal(t, 2, result.TotalOrders)
		assert.Len(t, store.State().Orders, 2)
	})

	t.Run("Failure degrades to nil without raising", func(t *testing.T) {
		transport := &transportMock{
			ordersFn: func(ctx context.Context, userID int64, page, pageSize int, token string) (*domain.OrdersPage, error) {
				return nil, errors.New("boom")
			},
		}
		orchestrator, store := newTestOrchestrator(transport)

		result := orchestrator.FetchOrders(ctx, 1, 1, 10, "token")

		assert.Nil(t, result)
		require.NotNil(t, store.State().Err)
		assert.False(t, store.State().IsLoading)
	})
}
