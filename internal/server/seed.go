package server

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// seedBook описывает одну запись стартового каталога
type seedBook struct {
	title    string
	author   string
	isbn     string
	price    string
	quantity int
}

// Стартовый каталог эталонного бэкенда
var seedBooks = []seedBook{
	{"Cien años de soledad", "Gabriel García Márquez", "978-0-06-088328-7", "42000", 12},
	{"El amor en los tiempos del cólera", "Gabriel García Márquez", "978-0-307-38973-2", "38500", 7},
	{"La ciudad y los perros", "Mario Vargas Llosa", "978-84-204-1216-0", "35000", 5},
	{"Rayuela", "Julio Cortázar", "978-84-376-0494-7", "41000", 3},
	{"Ficciones", "Jorge Luis Borges", "978-0-8021-3030-3", "29900", 9},
}

// Seed наполняет каталог стартовыми книгами
func (s *Stores) Seed() error {
	for _, book := range seedBooks {
		price, err := decimal.NewFromString(book.price)
		if err != nil {
			return fmt.Errorf("seed: bad price for %q: %w", book.title, err)
		}
		if _, err := s.Catalog.AddBook(book.title, book.author, book.isbn, price, book.quantity); err != nil {
			return fmt.Errorf("seed: failed to add %q: %w", book.title, err)
		}
	}
	return nil
}
