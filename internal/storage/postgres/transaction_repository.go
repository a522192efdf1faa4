package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository создаёт PostgreSQL-реализацию TransactionRepository.
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{db: store.DB()}
}

func (r *transactionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(queryCtx, `
		SELECT id, created_at, total_amount, summary
		FROM transactions
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.CreatedAt, &txn.TotalAmount, &txn.Summary); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

func (r *transactionRepository) TotalSales(ctx context.Context) (float64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total float64
	err := r.db.QueryRowContext(queryCtx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM transactions
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transaction totals: %w", err)
	}

	return total, nil
}

var _ domain.TransactionRepository = (*transactionRepository)(nil)
