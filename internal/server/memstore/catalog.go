package memstore

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/utils/isbn"
)

// bookRecord хранит книгу вместе с ее инвентарной записью.
// Эффективное наличие = quantity − reserved; резерв появляется при
// валидации заказа, списывается при подтверждении и снимается при отмене
type bookRecord struct {
	product  domain.Product
	quantity int
	reserved int
}

// Catalog хранит каталог книг и их наличие
type Catalog struct {
	mu     sync.RWMutex
	books  map[int64]*bookRecord
	order  []int64
	nextID int64
}

// NewCatalog создает пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{books: make(map[int64]*bookRecord)}
}

// AddBook добавляет книгу в каталог. ISBN проверяется по контрольной цифре
func (c *Catalog) AddBook(title, author, isbnCode string, price decimal.Decimal, quantity int) (domain.Product, error) {
	if !isbn.Validate(isbnCode) {
		return domain.Product{}, ErrInvalidISBN
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	record := &bookRecord{
		product: domain.Product{
			ProductID: c.nextID,
			Title:     title,
			Author:    author,
			ISBN:      isbnCode,
			Price:     price,
		},
		quantity: quantity,
	}
	c.books[c.nextID] = record
	c.order = append(c.order, c.nextID)

	return c.snapshot(record), nil
}

// Get возвращает книгу с текущим эффективным наличием
func (c *Catalog) Get(productID int64) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.books[productID]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return c.snapshot(record), nil
}

// List возвращает каталог в порядке добавления
func (c *Catalog) List() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		products = append(products, c.snapshot(c.books[id]))
	}
	return products
}

// EffectiveQuantity возвращает доступное к заказу количество
func (c *Catalog) EffectiveQuantity(productID int64) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.books[productID]
	if !ok {
		return 0, false
	}
	return record.quantity - record.reserved, true
}

// Reserve удерживает количество под заказ в статусе check
func (c *Catalog) Reserve(productID int64, amount int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.books[productID]
	if !ok || record.quantity-record.reserved < amount {
		return false
	}
	record.reserved += amount
	return true
}

// Release снимает резерв без списания
func (c *Catalog) Release(productID int64, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.books[productID]
	if !ok {
		return
	}
	record.reserved -= amount
	if record.reserved < 0 {
		record.reserved = 0
	}
}

// ConfirmReservation списывает зарезервированное количество
func (c *Catalog) ConfirmReservation(productID int64, amount int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.books[productID]
	if !ok || record.reserved < amount {
		return false
	}
	record.reserved -= amount
	record.quantity -= amount
	return true
}

func (c *Catalog) snapshot(record *bookRecord) domain.Product {
	product := record.product
	product.Available = record.quantity - record.reserved
	return product
}
