package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// Create сохраняет новый товар, отклоняя дубликаты по имени (без учёта регистра).
func (s *Store) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if strings.EqualFold(existing.Name, product.Name) {
			return domain.Product{}, domain.ErrDuplicateProduct
		}
	}

	product.ID = s.nextProductID
	s.nextProductID++
	s.products[product.ID] = product
	return product, nil
}

// Get возвращает товар или ErrProductNotFound.
func (s *Store) Get(ctx context.Context, id int64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает каталог по возрастанию ID — нечёткому поиску нужен
// детерминированный порядок для стабильного tie-break.
func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CountLowStock возвращает число товаров с остатком ниже threshold.
func (s *Store) CountLowStock(ctx context.Context, threshold int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, product := range s.products {
		if product.StockQty < threshold {
			count++
		}
	}
	return count, nil
}

var _ domain.ProductRepository = (*Store)(nil)
