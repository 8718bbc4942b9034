// Package service содержит оркестратор жизненного цикла заказа:
// единственную последовательность с побочными эффектами в ядре,
// создать → проверить → (подтвердить | отменить).
package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/cart"
	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/state"
)

// Запасные сообщения для нераспознанных сбоев, по операциям
const (
	msgCreateFailed   = "Error al crear el pedido"
	msgValidateFailed = "Error al validar el pedido"
	msgConfirmFailed  = "Error al confirmar el pedido"
	msgCancelFailed   = "Error al cancelar el pedido"
	msgFetchFailed    = "Error al obtener pedidos"
	msgDetailsFailed  = "Error al obtener el detalle del pedido"
)

// Orchestrator последовательно выполняет удаленные вызовы и переводит
// их результаты в действия редьюсера. Сам ввод-вывод делегируется
// внедренному транспорту
type Orchestrator struct {
	transport domain.Transport
	store     *state.Store
	logger    *zap.Logger

	// Токен единственной активной отправки: повторный Submit во время
	// незавершенного отклоняется, не полагаясь на блокировку кнопок в UI
	inFlight atomic.Bool
}

// NewOrchestrator создает оркестратор поверх транспорта и контейнера состояния
func NewOrchestrator(transport domain.Transport, store *state.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		transport: transport,
		store:     store,
		logger:    logger,
	}
}

// SubmitResult представляет исход отправки. Частично завершенная отправка
// (заказ создан, валидация сорвалась) — признанный исход: Order заполнен,
// Validation пуст, Err несет классифицированную ошибку
type SubmitResult struct {
	Order      *domain.Order
	Validation *domain.ValidationResult
	Err        *domain.StructuredError
}

// Submit отправляет текущую корзину как заказ и сразу запускает его
// валидацию: созданный заказ никогда не остается непроверенным.
// Пустая корзина отклоняется до любого сетевого вызова
func (o *Orchestrator) Submit(ctx context.Context, token string) (*SubmitResult, error) {
	snapshot := o.store.State()
	if len(snapshot.CurrentOrder.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer o.inFlight.Store(false)

	o.store.Dispatch(state.SetLoading{Loading: true})
	defer o.store.Dispatch(state.SetLoading{Loading: false})

	// Серверу уходят только id и количество: цена авторитетна на его стороне
	items := make([]domain.OrderItemRequest, 0, len(snapshot.CurrentOrder.Items))
	for _, line := range snapshot.CurrentOrder.Items {
		items = append(items, domain.OrderItemRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	order, err := o.transport.CreateOrder(ctx, items, token)
	if err != nil {
		structured := Classify(err, msgCreateFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		o.logger.Error("order creation failed", zap.Error(err))
		return nil, structured
	}

	o.store.Dispatch(state.AddOrder{Order: *order})
	o.logger.Info("order created",
		zap.Int64("order_id", order.OrderID),
		zap.Int("items_count", order.ItemsCount),
	)

	validation, err := o.Validate(ctx, order.OrderID, token)
	if err != nil {
		// Заказ уже создан: не теряем запись, возвращаем ее вместе с ошибкой
		return &SubmitResult{Order: order, Err: Classify(err, msgValidateFailed)}, nil
	}

	return &SubmitResult{Order: order, Validation: validation}, nil
}

// Validate запускает серверную проверку наличия для заказа.
// Статус заказа обновляется до сохранения результата валидации
func (o *Orchestrator) Validate(ctx context.Context, orderID int64, token string) (*domain.ValidationResult, error) {
	o.store.Dispatch(state.StartValidation{})
	o.store.Dispatch(state.SetLoading{Loading: true})
	defer o.store.Dispatch(state.SetLoading{Loading: false})

	result, err := o.transport.ValidateOrder(ctx, orderID, token)
	if err != nil {
		structured := Classify(err, msgValidateFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		o.logger.Warn("order validation failed",
			zap.Int64("order_id", orderID),
			zap.String("kind", string(structured.Kind)),
			zap.Error(err),
		)
		return nil, structured
	}

	o.store.Dispatch(state.UpdateOrderStatus{OrderID: orderID, Status: result.Status})
	o.store.Dispatch(state.ValidationComplete{Result: result})
	o.logger.Info("order validated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// Confirm подтверждает заказ. Заказ в терминальном статусе отклоняется
// на стороне клиента, без сетевого вызова
func (o *Orchestrator) Confirm(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	if err := o.ensureNotTerminal(orderID); err != nil {
		return nil, err
	}

	o.store.Dispatch(state.SetLoading{Loading: true})
	defer o.store.Dispatch(state.SetLoading{Loading: false})

	order, err := o.transport.ConfirmOrder(ctx, orderID, token)
	if err != nil {
		structured := Classify(err, msgConfirmFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		o.logger.Warn("order confirmation failed", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, structured
	}

	o.store.Dispatch(state.UpdateOrderStatus{OrderID: orderID, Status: domain.OrderStatusCompleted})
	o.store.Dispatch(state.OrderConfirmed{Order: *order})
	o.logger.Info("order confirmed", zap.Int64("order_id", orderID))
	return order, nil
}

// Cancel отменяет заказ из любого нетерминального статуса
func (o *Orchestrator) Cancel(ctx context.Context, orderID int64, token string) (*domain.Order, error) {
	if err := o.ensureNotTerminal(orderID); err != nil {
		return nil, err
	}

	o.store.Dispatch(state.SetLoading{Loading: true})
	defer o.store.Dispatch(state.SetLoading{Loading: false})

	order, err := o.transport.CancelOrder(ctx, orderID, token)
	if err != nil {
		structured := Classify(err, msgCancelFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		o.logger.Warn("order cancellation failed", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, structured
	}

	o.store.Dispatch(state.UpdateOrderStatus{OrderID: orderID, Status: domain.OrderStatusCanceled})
	o.logger.Info("order canceled", zap.Int64("order_id", orderID))
	return order, nil
}

// FetchOrders загружает страницу заказов пользователя. Сбой загрузки
// деградирует до пустого списка: ошибка попадает в состояние, но наружу
// не пробрасывается
func (o *Orchestrator) FetchOrders(ctx context.Context, userID int64, page, pageSize int, token string) *domain.OrdersPage {
	o.store.Dispatch(state.SetLoading{Loading: true})
	defer o.store.Dispatch(state.SetLoading{Loading: false})

	result, err := o.transport.GetUserOrders(ctx, userID, page, pageSize, token)
	if err != nil {
		structured := Classify(err, msgFetchFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		o.logger.Warn("orders fetch failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}

	o.store.Dispatch(state.SetOrders{Orders: result.Orders})
	return result
}

// OrderDetails возвращает детальный список позиций заказа
func (o *Orchestrator) OrderDetails(ctx context.Context, orderID int64, token string) ([]domain.OrderDetail, error) {
	details, err := o.transport.GetOrderDetails(ctx, orderID, token)
	if err != nil {
		structured := Classify(err, msgDetailsFailed)
		o.store.Dispatch(state.SetError{Err: structured})
		return nil, structured
	}
	return details, nil
}

// AddToCart добавляет товар в текущую корзину
func (o *Orchestrator) AddToCart(product domain.Product, quantity int) {
	o.store.Dispatch(state.AddToCart{Product: product, Quantity: quantity})
}

// RemoveFromCart удаляет позицию корзины
func (o *Orchestrator) RemoveFromCart(productID int64) {
	o.store.Dispatch(state.RemoveFromCart{ProductID: productID})
}

// UpdateQuantity заменяет количество позиции корзины
func (o *Orchestrator) UpdateQuantity(productID int64, quantity int) {
	o.store.Dispatch(state.UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// ClearCart опустошает корзину
func (o *Orchestrator) ClearCart() {
	o.store.Dispatch(state.ClearCart{})
}

// ClearError очищает последнюю ошибку
func (o *Orchestrator) ClearError() {
	o.store.Dispatch(state.ClearError{})
}

// CartItemCount возвращает суммарное количество товаров в корзине
func (o *Orchestrator) CartItemCount() int {
	return cart.ItemCount(o.store.State().CurrentOrder)
}

// ensureNotTerminal отклоняет операцию над заказом в терминальном статусе.
// Неизвестный локально заказ пропускается: решение остается за сервером
func (o *Orchestrator) ensureNotTerminal(orderID int64) error {
	for _, order := range o.store.State().Orders {
		if order.OrderID == orderID {
			if order.Status.IsTerminal() {
				return domain.ErrOrderTerminal
			}
			return nil
		}
	}
	return nil
}
