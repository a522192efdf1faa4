package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

type checkoutStore struct {
	db *sql.DB
}

// NewCheckoutStore создаёт PostgreSQL-реализацию CheckoutStore.
// Каждый checkout выполняется в одной SQL-транзакции: чтение товара
// берёт блокировку строки (FOR UPDATE), поэтому конкурентные checkout
// по одному товару сериализуются самой базой.
func NewCheckoutStore(store *Store) domain.CheckoutStore {
	return &checkoutStore{db: store.DB()}
}

func (s *checkoutStore) Begin(ctx context.Context) (domain.CheckoutTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout tx: %w", err)
	}
	return &checkoutTx{tx: tx}, nil
}

type checkoutTx struct {
	tx *sql.Tx
}

func (t *checkoutTx) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := t.tx.QueryRowContext(queryCtx, `
		SELECT id, name, keywords, price, stock_qty
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&product.ID, &product.Name, &product.Keywords, &product.Price, &product.StockQty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product for checkout: %w", err)
	}

	return product, nil
}

func (t *checkoutTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := t.tx.ExecContext(queryCtx, `
		UPDATE products
		SET stock_qty = stock_qty - $1
		WHERE id = $2
	`, qty, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (t *checkoutTx) InsertTransaction(ctx context.Context, total float64, summary string) (domain.Transaction, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var txn domain.Transaction
	txn.TotalAmount = total
	txn.Summary = summary

	err := t.tx.QueryRowContext(queryCtx, `
		INSERT INTO transactions (total_amount, summary)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, total, summary).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return txn, nil
}

func (t *checkoutTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

func (t *checkoutTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback checkout tx: %w", err)
	}
	return nil
}

var (
	_ domain.CheckoutStore = (*checkoutStore)(nil)
	_ domain.CheckoutTx    = (*checkoutTx)(nil)
)
