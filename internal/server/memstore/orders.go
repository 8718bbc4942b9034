package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avc/libco-orders/internal/domain"
)

// orderItem хранит позицию заказа с ценой на момент создания
type orderItem struct {
	orderItemID int64
	productID   int64
	title       string
	quantity    int
	unitPrice   decimal.Decimal
	subTotal    decimal.Decimal
}

// orderRecord хранит заказ вместе с владельцем и позициями
type orderRecord struct {
	order       domain.Order
	userID      int64
	items       []orderItem
	validatedAt time.Time
}

// Orders хранит заказы и проводит их по жизненному циклу
// draft → check → completed | canceled поверх каталога
type Orders struct {
	mu         sync.RWMutex
	catalog    *Catalog
	byID       map[int64]*orderRecord
	byUser     map[int64][]int64
	nextID     int64
	nextItemID int64
}

// NewOrders создает хранилище заказов поверх каталога
func NewOrders(catalog *Catalog) *Orders {
	return &Orders{
		catalog: catalog,
		byID:    make(map[int64]*orderRecord),
		byUser:  make(map[int64][]int64),
	}
}

// Create создает заказ в статусе draft. Цены берутся из каталога,
// данные клиента не авторитетны
func (o *Orders) Create(userID int64, items []domain.OrderItemRequest) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}

	orderItems := make([]orderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: product %d", ErrEmptyOrder, item.ProductID)
		}
		product, err := o.catalog.Get(item.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
		}

		subTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subTotal)
		orderItems = append(orderItems, orderItem{
			productID: item.ProductID,
			title:     product.Title,
			quantity:  item.Quantity,
			unitPrice: product.Price,
			subTotal:  subTotal,
		})
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	for i := range orderItems {
		o.nextItemID++
		orderItems[i].orderItemID = o.nextItemID
	}

	record := &orderRecord{
		order: domain.Order{
			OrderID:    o.nextID,
			ItemsCount: len(orderItems),
			Total:      total,
			Status:     domain.OrderStatusDraft,
			CreatedAt:  time.Now().UTC(),
		},
		userID: userID,
		items:  orderItems,
	}
	o.byID[record.order.OrderID] = record
	o.byUser[userID] = append(o.byUser[userID], record.order.OrderID)

	return record.order, nil
}

// Validate проверяет наличие по всем позициям заказа. При достатке резервирует
// количество и переводит заказ в check; при нехватке возвращает
// InsufficientStockError с детализацией и оставляет заказ в draft
func (o *Orders) Validate(orderID int64) (domain.Order, []string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	record, ok := o.byID[orderID]
	if !ok {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	if record.order.Status != domain.OrderStatusDraft {
		return domain.Order{}, nil, fmt.Errorf("%w: la orden %d no está en estado 'draft'", ErrInvalidTransition, orderID)
	}

	conflicts := make(map[int64]domain.StockConflict)
	for _, item := range record.items {
		effective, found := o.catalog.EffectiveQuantity(item.productID)
		if !found || effective < item.quantity {
			conflicts[item.productID] = domain.StockConflict{
				ProductID:         item.productID,
				ProductTitle:      item.title,
				AvailableQuantity: effective,
				RequestedQuantity: item.quantity,
			}
		}
	}
	if len(conflicts) > 0 {
		return domain.Order{}, nil, &InsufficientStockError{Stock: conflicts}
	}

	reserved := make([]orderItem, 0, len(record.items))
	for _, item := range record.items {
		if !o.catalog.Reserve(item.productID, item.quantity) {
			// Конкурирующая валидация успела забрать остаток: откатываем
			for _, done := range reserved {
				o.catalog.Release(done.productID, done.quantity)
			}
			return domain.Order{}, nil, &InsufficientStockError{Stock: map[int64]domain.StockConflict{
				item.productID: {
					ProductID:         item.productID,
					ProductTitle:      item.title,
					RequestedQuantity: item.quantity,
				},
			}}
		}
		reserved = append(reserved, item)
	}

	record.order.Status = domain.OrderStatusCheck
	record.validatedAt = time.Now().UTC()

	messages := []string{fmt.Sprintf("Stock disponible para %d productos", len(record.items))}
	return record.order, messages, nil
}

// Confirm списывает резерв и завершает заказ. Допустим только из check
func (o *Orders) Confirm(orderID int64) (domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	record, ok := o.byID[orderID]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if record.order.Status != domain.OrderStatusCheck {
		return domain.Order{}, fmt.Errorf("%w: la orden %d no está en estado 'check'", ErrInvalidTransition, orderID)
	}

	for _, item := range record.items {
		if !o.catalog.ConfirmReservation(item.productID, item.quantity) {
			return domain.Order{}, fmt.Errorf("%w: la reserva del producto %d", ErrInvalidTransition, item.productID)
		}
	}

	record.order.Status = domain.OrderStatusCompleted
	return record.order, nil
}

// Cancel отменяет заказ из любого нетерминального статуса,
// снимая резерв, если он был
func (o *Orders) Cancel(orderID int64) (domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	record, ok := o.byID[orderID]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if record.order.Status.IsTerminal() {
		return domain.Order{}, fmt.Errorf("%w: la orden %d ya está en estado terminal", ErrInvalidTransition, orderID)
	}

	if record.order.Status == domain.OrderStatusCheck {
		for _, item := range record.items {
			o.catalog.Release(item.productID, item.quantity)
		}
	}

	record.order.Status = domain.OrderStatusCanceled
	return record.order, nil
}

// Owner возвращает владельца заказа
func (o *Orders) Owner(orderID int64) (int64, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	record, ok := o.byID[orderID]
	if !ok {
		return 0, ErrOrderNotFound
	}
	return record.userID, nil
}

// Details возвращает позиции заказа
func (o *Orders) Details(orderID int64) ([]domain.OrderDetail, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	record, ok := o.byID[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}

	details := make([]domain.OrderDetail, 0, len(record.items))
	for _, item := range record.items {
		details = append(details, domain.OrderDetail{
			OrderItemID:  item.orderItemID,
			ProductID:    item.productID,
			ProductTitle: item.title,
			Quantity:     item.quantity,
			UnitPrice:    item.unitPrice,
			SubTotal:     item.subTotal,
		})
	}
	return details, nil
}

// PageByUser возвращает страницу заказов пользователя, новые первыми
func (o *Orders) PageByUser(userID int64, page, pageSize int) domain.OrdersPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := o.byUser[userID]
	total := len(ids)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	orders := make([]domain.Order, 0, pageSize)
	start := (page - 1) * pageSize
	for i := 0; i < pageSize && start+i < total; i++ {
		// Новые заказы первыми
		id := ids[total-1-start-i]
		orders = append(orders, o.byID[id].order)
	}

	return domain.OrdersPage{
		Orders:      orders,
		TotalOrders: total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
}

// StaleChecked возвращает заказы в статусе check, провалидированные
// раньше отсечки. Используется сборщиком просроченных резервов
func (o *Orders) StaleChecked(cutoff time.Time) []int64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var stale []int64
	for id, record := range o.byID {
		if record.order.Status == domain.OrderStatusCheck && record.validatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	return stale
}
