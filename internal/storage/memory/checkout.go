package memory

import (
	"context"
	"errors"
	"time"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

var errTxFinished = errors.New("checkout tx already finished")

// checkoutTx держит мьютекс хранилища на всю единицу работы: конкурентные
// checkout сериализуются так же, как блокировка строк в PostgreSQL.
// Изменения накапливаются в staged и применяются только в Commit.
type checkoutTx struct {
	store    *Store
	staged   map[int64]domain.Product
	pending  []domain.Transaction
	finished bool
}

// Begin открывает атомарную единицу работы checkout.
func (s *Store) Begin(ctx context.Context) (domain.CheckoutTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &checkoutTx{store: s, staged: make(map[int64]domain.Product)}, nil
}

func (t *checkoutTx) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if t.finished {
		return domain.Product{}, errTxFinished
	}
	if product, ok := t.staged[id]; ok {
		return product, nil
	}
	product, ok := t.store.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (t *checkoutTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	if t.finished {
		return errTxFinished
	}
	product, err := t.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	// Остаток может уйти в минус: проверка достаточности сознательно не выполняется.
	product.StockQty -= qty
	t.staged[id] = product
	return nil
}

func (t *checkoutTx) InsertTransaction(ctx context.Context, total float64, summary string) (domain.Transaction, error) {
	if t.finished {
		return domain.Transaction{}, errTxFinished
	}
	txn := domain.Transaction{
		ID:          t.store.nextTransactionID + int64(len(t.pending)),
		CreatedAt:   time.Now().UTC(),
		TotalAmount: total,
		Summary:     summary,
	}
	t.pending = append(t.pending, txn)
	return txn, nil
}

// Commit применяет накопленные изменения и освобождает хранилище.
func (t *checkoutTx) Commit() error {
	if t.finished {
		return errTxFinished
	}
	t.finished = true

	for id, product := range t.staged {
		t.store.products[id] = product
	}
	t.store.transactions = append(t.store.transactions, t.pending...)
	t.store.nextTransactionID += int64(len(t.pending))

	t.store.mu.Unlock()
	return nil
}

// Rollback отбрасывает накопленные изменения.
func (t *checkoutTx) Rollback() error {
	if t.finished {
		return errTxFinished
	}
	t.finished = true
	t.store.mu.Unlock()
	return nil
}

var _ domain.CheckoutStore = (*Store)(nil)
