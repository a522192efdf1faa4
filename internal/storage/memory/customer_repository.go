package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// ListByBalanceDesc возвращает покупателей по убыванию баланса.
func (s *Store) ListByBalanceDesc(ctx context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Balance != result[j].Balance {
			return result[i].Balance > result[j].Balance
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// TotalPositiveBalance возвращает сумму положительных балансов.
func (s *Store) TotalPositiveBalance(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, customer := range s.customers {
		if customer.Balance > 0 {
			total += customer.Balance
		}
	}
	return total, nil
}

var _ domain.CustomerRepository = (*Store)(nil)
