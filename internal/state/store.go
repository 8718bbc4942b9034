package state

import "sync"

// Store владеет состоянием одной сессии заказов.
// Контейнер конструируется на старте сессии и передается зависимостям
// явно; процесс-широкого синглтона нет. Единственный способ записи —
// Dispatch, который прогоняет действие через чистый Reduce
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore создает контейнер с начальным состоянием
func NewStore() *Store {
	return &Store{state: Initial()}
}

// Dispatch применяет действие и возвращает получившееся состояние
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	return s.state
}

// State возвращает снимок текущего состояния.
// Срезы внутри снимка нельзя изменять: они разделяются до следующего
// Dispatch, который заменяет их копиями
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}
