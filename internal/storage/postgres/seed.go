package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// DefaultCatalog возвращает стартовый каталог для пустой базы.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{Name: "Maggi", Keywords: "noodles snack", Price: 14.0, StockQty: 100},
		{Name: "Coke", Keywords: "soda drink", Price: 40.0, StockQty: 20},
	}
}

// SeedCatalog добавляет отсутствующие товары из products.
// Уже существующие (по имени без учёта регистра) пропускаются.
// Возвращает количество вставленных и пропущенных записей.
func (s *Store) SeedCatalog(ctx context.Context, products []domain.Product) (inserted, skipped int, err error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for _, product := range products {
		result, execErr := s.db.ExecContext(queryCtx, `
			INSERT INTO products (name, keywords, price, stock_qty)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (LOWER(name)) DO NOTHING
		`, product.Name, product.Keywords, product.Price, product.StockQty)
		if execErr != nil {
			return inserted, skipped, fmt.Errorf("seed product %q: %w", product.Name, execErr)
		}

		affected, raErr := result.RowsAffected()
		if raErr != nil {
			return inserted, skipped, fmt.Errorf("seed product %q rows affected: %w", product.Name, raErr)
		}
		if affected == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	return inserted, skipped, nil
}
