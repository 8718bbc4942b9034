package state

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avc/libco-orders/internal/domain"
)

func testProduct(id int64, price string) domain.Product {
	return domain.Product{
		ProductID: id,
		Title:     "Libro",
		Price:     decimal.RequireFromString(price),
	}
}

func TestReduce_Cart(t *testing.T) {
	t.Run("AddToCart accumulates items and total", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})
		s = Reduce(s, AddToCart{Product: testProduct(2, "5.00"), Quantity: 1})

		require.Len(t, s.CurrentOrder.Items, 2)
		assert.True(t, s.CurrentOrder.Total.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("RemoveFromCart drops the line", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})

		s = Reduce(s, RemoveFromCart{ProductID: 1})

		assert.Empty(t, s.CurrentOrder.Items)
		assert.True(t, s.CurrentOrder.Total.IsZero())
	})

	t.Run("UpdateQuantity with zero equals removal", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})

		byUpdate := Reduce(s, UpdateQuantity{ProductID: 1, Quantity: 0})
		byRemove := Reduce(s, RemoveFromCart{ProductID: 1})

		assert.Equal(t, byRemove.CurrentOrder, byUpdate.CurrentOrder)
	})

	t.Run("ClearCart resets to empty draft", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})

		s = Reduce(s, ClearCart{})

		assert.Empty(t, s.CurrentOrder.Items)
		assert.Equal(t, domain.OrderStatusDraft, s.CurrentOrder.Status)
	})
}

func TestReduce_Orders(t *testing.T) {
	t.Run("AddOrder appends order and consumes cart", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})

		s = Reduce(s, AddOrder{Order: domain.Order{OrderID: 42, Status: domain.OrderStatusDraft}})

		require.Len(t, s.Orders, 1)
		assert.Equal(t, int64(42), s.Orders[0].OrderID)
		assert.Empty(t, s.CurrentOrder.Items)
	})

	t.Run("SetOrders replaces the whole list", func(t *testing.T) {
		s := Reduce(Initial(), AddOrder{Order: domain.Order{OrderID: 1}})

		s = Reduce(s, SetOrders{Orders: []domain.Order{{OrderID: 7}, {OrderID: 8}}})

		require.Len(t, s.Orders, 2)
		assert.Equal(t, int64(7), s.Orders[0].OrderID)
	})

	t.Run("UpdateOrderStatus touches only the matching order", func(t *testing.T) {
		s := Reduce(Initial(), SetOrders{Orders: []domain.Order{
			{OrderID: 1, Status: domain.OrderStatusDraft},
			{OrderID: 2, Status: domain.OrderStatusDraft},
		}})

		s = Reduce(s, UpdateOrderStatus{OrderID: 2, Status: domain.OrderStatusCheck})

		assert.Equal(t, domain.OrderStatusDraft, s.Orders[0].Status)
		assert.Equal(t, domain.OrderStatusCheck, s.Orders[1].Status)
	})

	t.Run("UpdateOrderStatus for unknown order is a no-op", func(t *testing.T) {
		before := Reduce(Initial(), SetOrders{Orders: []domain.Order{{OrderID: 1, Status: domain.OrderStatusDraft}}})

		after := Reduce(before, UpdateOrderStatus{OrderID: 99, Status: domain.OrderStatusCanceled})

		assert.Equal(t, before.Orders, after.Orders)
	})

	t.Run("OrderConfirmed merges the full server record", func(t *testing.T) {
		s := Reduce(Initial(), SetOrders{Orders: []domain.Order{{OrderID: 5, Status: domain.OrderStatusCheck}}})

		confirmed := domain.Order{OrderID: 5, Status: domain.OrderStatusCompleted, ItemsCount: 3}
		s = Reduce(s, OrderConfirmed{Order: confirmed})

		assert.Equal(t, confirmed, s.Orders[0])
	})
}

func TestReduce_Flags(t *testing.T) {
	t.Run("StartValidation clears previous result and error", func(t *testing.T) {
		s := Initial()
		s.ValidationResult = &domain.ValidationResult{OrderID: 1}
		s.Err = &domain.StructuredError{Kind: domain.ErrorKindUnknown, Message: "x"}

		s = Reduce(s, StartValidation{})

		assert.True(t, s.IsValidating)
		assert.Nil(t, s.ValidationResult)
		assert.Nil(t, s.Err)
	})

	t.Run("ValidationComplete stores result and drops flag", func(t *testing.T) {
		s := Reduce(Initial(), StartValidation{})

		result := &domain.ValidationResult{OrderID: 1, Status: domain.OrderStatusCheck}
		s = Reduce(s, ValidationComplete{Result: result})

		assert.False(t, s.IsValidating)
		require.NotNil(t, s.ValidationResult)
		assert.Equal(t, *result, *s.ValidationResult)
	})

	t.Run("SetError drops both loading flags", func(t *testing.T) {
		s := Reduce(Initial(), SetLoading{Loading: true})
		s = Reduce(s, StartValidation{})

		s = Reduce(s, SetError{Err: &domain.StructuredError{Kind: domain.ErrorKindNetwork, Message: "down"}})

		assert.False(t, s.IsLoading)
		assert.False(t, s.IsValidating)
		require.NotNil(t, s.Err)
		assert.Equal(t, domain.ErrorKindNetwork, s.Err.Kind)
	})

	t.Run("ClearError keeps the rest of the state", func(t *testing.T) {
		s := Reduce(Initial(), AddOrder{Order: domain.Order{OrderID: 1}})
		s = Reduce(s, SetError{Err: &domain.StructuredError{Kind: domain.ErrorKindUnknown, Message: "x"}})

		s = Reduce(s, ClearError{})

		assert.Nil(t, s.Err)
		assert.Len(t, s.Orders, 1)
	})
}

func TestReduce_Pure(t *testing.T) {
	t.Run("Input state is not mutated", func(t *testing.T) {
		s := Reduce(Initial(), SetOrders{Orders: []domain.Order{{OrderID: 1, Status: domain.OrderStatusDraft}}})

		_ = Reduce(s, UpdateOrderStatus{OrderID: 1, Status: domain.OrderStatusCanceled})

		assert.Equal(t, domain.OrderStatusDraft, s.Orders[0].Status)
	})

	t.Run("Same input gives same output", func(t *testing.T) {
		s := Reduce(Initial(), AddToCart{Product: testProduct(1, "10.00"), Quantity: 2})
		action := UpdateOrderStatus{OrderID: 1, Status: domain.OrderStatusCheck}

		first := Reduce(s, action)
		second := Reduce(s, action)

		assert.Equal(t, first, second)
	})
}
