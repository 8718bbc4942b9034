package state

import "github.com/avc/libco-orders/internal/domain"

// Action представляет закрытый набор переходов состояния.
// Варианты — структуры с маркерным методом; редьюсер разбирает их единым
// type switch, что исключает строковые теги и опечатки в обработке
type Action interface {
	isAction()
}

// AddToCart добавляет товар в текущую корзину
type AddToCart struct {
	Product  domain.Product
	Quantity int
}

// RemoveFromCart удаляет позицию корзины по product_id
type RemoveFromCart struct {
	ProductID int64
}

// UpdateQuantity заменяет количество позиции корзины
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

// ClearCart сбрасывает корзину в пустой draft
type ClearCart struct{}

// SetOrders целиком заменяет список заказов (после загрузки с сервера)
type SetOrders struct {
	Orders []domain.Order
}

// AddOrder добавляет созданный заказ и опустошает корзину:
// отправка потребляет корзину
type AddOrder struct {
	Order domain.Order
}

// UpdateOrderStatus заменяет только статус заказа с данным id
type UpdateOrderStatus struct {
	OrderID int64
	Status  domain.OrderStatus
}

// OrderConfirmed вливает полную серверную запись в соответствующий заказ
type OrderConfirmed struct {
	Order domain.Order
}

// StartValidation поднимает флаг валидации и очищает прошлый результат
type StartValidation struct{}

// ValidationComplete опускает флаг валидации и сохраняет результат
type ValidationComplete struct {
	Result *domain.ValidationResult
}

// SetLoading выставляет флаг блокирующей операции
type SetLoading struct {
	Loading bool
}

// SetError сохраняет классифицированную ошибку; любые незавершенные
// операции считаются прерванными
type SetError struct {
	Err *domain.StructuredError
}

// ClearError очищает только ошибку
type ClearError struct{}

func (AddToCart) isAction()         {}
func (RemoveFromCart) isAction()    {}
func (UpdateQuantity) isAction()    {}
func (ClearCart) isAction()         {}
func (SetOrders) isAction()         {}
func (AddOrder) isAction()          {}
func (UpdateOrderStatus) isAction() {}
func (OrderConfirmed) isAction()    {}
func (StartValidation) isAction()   {}
func (ValidationComplete) isAction() {}
func (SetLoading) isAction()        {}
func (SetError) isAction()          {}
func (ClearError) isAction()        {}
