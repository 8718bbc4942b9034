// Package memstore содержит потокобезопасные хранилища эталонного
// бэкенда в памяти: пользователи, каталог с учетом резервов и заказы.
// Состояние живет ровно столько, сколько процесс, — по замыслу.
package memstore

import (
	"sync"
	"time"
)

// User представляет зарегистрированного пользователя
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// Users хранит пользователей в памяти
type Users struct {
	mu      sync.RWMutex
	byLogin map[string]*User
	byID    map[int64]*User
	nextID  int64
}

// NewUsers создает пустое хранилище пользователей
func NewUsers() *Users {
	return &Users{
		byLogin: make(map[string]*User),
		byID:    make(map[int64]*User),
	}
}

// Create регистрирует пользователя с уже захешированным паролем
func (u *Users) Create(login, passwordHash string) (*User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.byLogin[login]; exists {
		return nil, ErrUserExists
	}

	u.nextID++
	user := &User{
		ID:           u.nextID,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	u.byLogin[login] = user
	u.byID[user.ID] = user
	return user, nil
}

// GetByLogin возвращает пользователя по логину
func (u *Users) GetByLogin(login string) (*User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byLogin[login]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}
