// Package cart содержит чистые операции над корзиной.
// Все функции тотальны: не выполняют ввод-вывод, не изменяют аргументы
// и возвращают новую корзину с пересчитанным итогом.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/avc/libco-orders/internal/domain"
)

// New возвращает пустую корзину в статусе draft
func New() domain.Cart {
	return domain.Cart{
		Items:  []domain.CartLine{},
		Total:  decimal.Zero,
		Status: domain.OrderStatusDraft,
	}
}

// AddLine добавляет товар в корзину. Если позиция с таким product_id уже
// есть, увеличивает ее количество вместо дублирования; иначе добавляет
// новую позицию в конец
func AddLine(c domain.Cart, product domain.Product, quantity int) domain.Cart {
	items := cloneItems(c.Items)

	found := false
	for i := range items {
		if items[i].ProductID == product.ProductID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		items = append(items, domain.CartLine{
			ProductID: product.ProductID,
			Quantity:  quantity,
			UnitPrice: product.Price,
		})
	}

	return recalculate(c, items)
}

// RemoveLine удаляет позицию по product_id. Если позиции нет, корзина
// возвращается без изменений
func RemoveLine(c domain.Cart, productID int64) domain.Cart {
	items := make([]domain.CartLine, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ProductID != productID {
			items = append(items, line)
		}
	}
	return recalculate(c, items)
}

// SetQuantity заменяет количество позиции, сохраняя ее место в списке.
// Неположительное количество эквивалентно удалению позиции
func SetQuantity(c domain.Cart, productID int64, quantity int) domain.Cart {
	if quantity <= 0 {
		return RemoveLine(c, productID)
	}

	items := cloneItems(c.Items)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return recalculate(c, items)
}

// Clear возвращает пустую корзину в статусе draft
func Clear(domain.Cart) domain.Cart {
	return New()
}

// ItemCount возвращает суммарное количество по всем позициям
func ItemCount(c domain.Cart) int {
	count := 0
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}

// recalculate восстанавливает инварианты: sub_total каждой позиции и общий
// итог всегда выводятся из количества и цены, никогда не задаются отдельно
func recalculate(c domain.Cart, items []domain.CartLine) domain.Cart {
	total := decimal.Zero
	for i := range items {
		items[i].SubTotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(items[i].SubTotal)
	}

	c.Items = items
	c.Total = total
	return c
}

func cloneItems(items []domain.CartLine) []domain.CartLine {
	cloned := make([]domain.CartLine, len(items))
	copy(cloned, items)
	return cloned
}
