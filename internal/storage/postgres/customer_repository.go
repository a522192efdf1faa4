package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) ListByBalanceDesc(ctx context.Context) ([]domain.Customer, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(queryCtx, `
		SELECT id, name, balance
		FROM customers
		ORDER BY balance DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Balance); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) TotalPositiveBalance(ctx context.Context) (float64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total float64
	err := r.db.QueryRowContext(queryCtx, `
		SELECT COALESCE(SUM(balance), 0)
		FROM customers
		WHERE balance > 0
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum customer balances: %w", err)
	}

	return total, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
