// Package memory содержит in-memory реализацию хранилища для локальной
// разработки и тестов. Все репозитории делят одно состояние, как и таблицы
// одной базы в PostgreSQL-реализации.
package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// Store — общее состояние каталога, покупателей и журнала транзакций.
type Store struct {
	mu sync.Mutex

	products     map[int64]domain.Product
	customers    map[int64]domain.Customer
	transactions []domain.Transaction

	nextProductID     int64
	nextCustomerID    int64
	nextTransactionID int64
}

// NewStore возвращает пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products:          make(map[int64]domain.Product),
		customers:         make(map[int64]domain.Customer),
		nextProductID:     1,
		nextCustomerID:    1,
		nextTransactionID: 1,
	}
}

// AddCustomer добавляет покупателя (используется сидированием и тестами).
func (s *Store) AddCustomer(customer domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.ID = s.nextCustomerID
	s.nextCustomerID++
	s.customers[customer.ID] = customer
	return customer
}
