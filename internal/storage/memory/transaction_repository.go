package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// ListRecent возвращает последние транзакции по убыванию ID.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Transaction, len(s.transactions))
	copy(result, s.transactions)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// TotalSales возвращает сумму всех транзакций.
func (s *Store) TotalSales(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, txn := range s.transactions {
		total += txn.TotalAmount
	}
	return total, nil
}

var _ domain.TransactionRepository = (*Store)(nil)
