// Package state содержит состояние сессии заказов и его редьюсер.
// Состояние изменяется только целиком, чистой функцией Reduce; единственный
// писатель — Store, все остальные компоненты читают снимки.
package state

import (
	"github.com/avc/libco-orders/internal/cart"
	"github.com/avc/libco-orders/internal/domain"
)

// State представляет полное состояние сессии заказов
type State struct {
	CurrentOrder     domain.Cart
	Orders           []domain.Order
	IsLoading        bool
	IsValidating     bool
	ValidationResult *domain.ValidationResult
	Err              *domain.StructuredError
}

// Initial возвращает начальное состояние сессии
func Initial() State {
	return State{
		CurrentOrder: cart.New(),
		Orders:       []domain.Order{},
	}
}

// Reduce применяет действие к состоянию и возвращает следующее состояние.
// Функция детерминирована, не выполняет ввод-вывод и не изменяет аргумент:
// одинаковая пара (state, action) всегда дает одинаковый результат
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddToCart:
		s.CurrentOrder = cart.AddLine(s.CurrentOrder, act.Product, act.Quantity)

	case RemoveFromCart:
		s.CurrentOrder = cart.RemoveLine(s.CurrentOrder, act.ProductID)

	case UpdateQuantity:
		s.CurrentOrder = cart.SetQuantity(s.CurrentOrder, act.ProductID, act.Quantity)

	case ClearCart:
		s.CurrentOrder = cart.Clear(s.CurrentOrder)

	case SetOrders:
		s.Orders = cloneOrders(act.Orders)

	case AddOrder:
		orders := cloneOrders(s.Orders)
		s.Orders = append(orders, act.Order)
		s.CurrentOrder = cart.Clear(s.CurrentOrder)

	case UpdateOrderStatus:
		// Нет заказа с таким id — состояние не меняется
		orders := cloneOrders(s.Orders)
		for i := range orders {
			if orders[i].OrderID == act.OrderID {
				orders[i].Status = act.Status
				break
			}
		}
		s.Orders = orders

	case OrderConfirmed:
		orders := cloneOrders(s.Orders)
		for i := range orders {
			if orders[i].OrderID == act.Order.OrderID {
				orders[i] = act.Order
				break
			}
		}
		s.Orders = orders

	case StartValidation:
		s.IsValidating = true
		s.ValidationResult = nil
		s.Err = nil

	case ValidationComplete:
		s.IsValidating = false
		s.ValidationResult = cloneValidation(act.Result)

	case SetLoading:
		s.IsLoading = act.Loading

	case SetError:
		s.Err = cloneError(act.Err)
		s.IsLoading = false
		s.IsValidating = false

	case ClearError:
		s.Err = nil

	default:
		// Закрытый тип не дает сюда попасть извне пакета,
		// но неизвестное действие молча не меняет состояние
	}

	return s
}

func cloneOrders(orders []domain.Order) []domain.Order {
	cloned := make([]domain.Order, len(orders))
	copy(cloned, orders)
	return cloned
}

func cloneValidation(v *domain.ValidationResult) *domain.ValidationResult {
	if v == nil {
		return nil
	}
	cloned := *v
	cloned.Messages = append([]string(nil), v.Messages...)
	return &cloned
}

func cloneError(e *domain.StructuredError) *domain.StructuredError {
	if e == nil {
		return nil
	}
	cloned := *e
	if e.StockDetail != nil {
		cloned.StockDetail = make(map[int64]domain.StockConflict, len(e.StockDetail))
		for id, detail := range e.StockDetail {
			cloned.StockDetail[id] = detail
		}
	}
	return &cloned
}
