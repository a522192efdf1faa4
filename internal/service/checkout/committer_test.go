package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	"github.com/vladislavdragonenkov/voicebill/internal/storage/memory"
)

func seedStore(t *testing.T) (*memory.Store, domain.Product, domain.Product) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	a, err := store.Create(ctx, domain.Product{Name: "Sugar 1kg", Keywords: "sugar", Price: 14, StockQty: 20})
	require.NoError(t, err)
	b, err := store.Create(ctx, domain.Product{Name: "Ghee 500ml", Keywords: "ghee", Price: 40, StockQty: 8})
	require.NoError(t, err)

	return store, a, b
}

func TestCheckout_EmptyCart(t *testing.T) {
	store, _, _ := seedStore(t)
	committer := NewCommitter(store, nil)

	_, _, err := committer.Checkout(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	total, _ := store.TotalSales(context.Background())
	assert.Zero(t, total, "empty cart must never create a transaction")
}

func TestCheckout_TotalsAndDecrements(t *testing.T) {
	store, a, b := seedStore(t)
	committer := NewCommitter(store, nil)
	ctx := context.Background()

	txn, summary, err := committer.Checkout(ctx, []domain.CartItemRef{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 68.0, txn.TotalAmount) // 2*14 + 1*40
	assert.Equal(t, int64(1), txn.ID)
	require.Len(t, summary, 2)
	assert.Equal(t, "2 x Sugar 1kg - Rs.28", summary[0])
	assert.Equal(t, "1 x Ghee 500ml - Rs.40", summary[1])
	assert.Equal(t, "2 x Sugar 1kg - Rs.28, 1 x Ghee 500ml - Rs.40", txn.Summary)

	gotA, _ := store.Get(ctx, a.ID)
	gotB, _ := store.Get(ctx, b.ID)
	assert.Equal(t, 18, gotA.StockQty)
	assert.Equal(t, 7, gotB.StockQty)
}

func TestCheckout_ChargesCurrentCatalogPrice(t *testing.T) {
	store, a, _ := seedStore(t)
	committer := NewCommitter(store, nil)

	// Корзина несёт только ссылки; сумма считается по актуальной цене каталога.
	txn, _, err := committer.Checkout(context.Background(), []domain.CartItemRef{{ProductID: a.ID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 42.0, txn.TotalAmount)
}

func TestCheckout_SkipsMissingProducts(t *testing.T) {
	store, a, _ := seedStore(t)
	committer := NewCommitter(store, nil)
	ctx := context.Background()

	txn, summary, err := committer.Checkout(ctx, []domain.CartItemRef{
		{ProductID: 999, Quantity: 1},
		{ProductID: a.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 14.0, txn.TotalAmount)
	assert.Len(t, summary, 1)
}

func TestCheckout_NothingToCharge(t *testing.T) {
	store, _, _ := seedStore(t)
	committer := NewCommitter(store, nil)
	ctx := context.Background()

	_, _, err := committer.Checkout(ctx, []domain.CartItemRef{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNothingToCharge)

	recent, _ := store.ListRecent(ctx, 10)
	assert.Empty(t, recent, "no transaction row on zero total")
}

func TestCheckout_StockMayGoNegative(t *testing.T) {
	// Проверки достаточности остатка нет: остаток может уйти в минус.
	store, a, _ := seedStore(t)
	committer := NewCommitter(store, nil)
	ctx := context.Background()

	_, _, err := committer.Checkout(ctx, []domain.CartItemRef{{ProductID: a.ID, Quantity: 25}})
	require.NoError(t, err)

	got, _ := store.Get(ctx, a.ID)
	assert.Equal(t, -5, got.StockQty)
}

// failingStore ломает единицу работы на заданном шаге.
type failingStore struct {
	inner         domain.CheckoutStore
	failOnInsert  bool
	failDecrement int // после скольких успешных декрементов падать; 0 — не падать
}

type failingTx struct {
	domain.CheckoutTx
	parent     *failingStore
	decrements int
}

func (s *failingStore) Begin(ctx context.Context) (domain.CheckoutTx, error) {
	tx, err := s.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{CheckoutTx: tx, parent: s}, nil
}

func (t *failingTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	if t.parent.failDecrement > 0 && t.decrements >= t.parent.failDecrement {
		return errors.New("simulated storage failure")
	}
	if err := t.CheckoutTx.DecrementStock(ctx, id, qty); err != nil {
		return err
	}
	t.decrements++
	return nil
}

func (t *failingTx) InsertTransaction(ctx context.Context, total float64, summary string) (domain.Transaction, error) {
	if t.parent.failOnInsert {
		return domain.Transaction{}, errors.New("simulated storage failure")
	}
	return t.CheckoutTx.InsertTransaction(ctx, total, summary)
}

func TestCheckout_MidwayFailureRollsBackEverything(t *testing.T) {
	store, a, b := seedStore(t)
	// Первый декремент (товар A) проходит, второй (товар B) падает.
	committer := NewCommitter(&failingStore{inner: store, failDecrement: 1}, nil)
	ctx := context.Background()

	_, _, err := committer.Checkout(ctx, []domain.CartItemRef{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	})
	require.Error(t, err)
	assert.False(t, domain.IsCheckoutRejected(err), "storage failure is not a business rejection")

	gotA, _ := store.Get(ctx, a.ID)
	gotB, _ := store.Get(ctx, b.ID)
	assert.Equal(t, 20, gotA.StockQty, "decrement of A must be rolled back")
	assert.Equal(t, 8, gotB.StockQty)

	recent, _ := store.ListRecent(ctx, 10)
	assert.Empty(t, recent)
}

func TestCheckout_InsertFailureRollsBackDecrements(t *testing.T) {
	store, a, _ := seedStore(t)
	committer := NewCommitter(&failingStore{inner: store, failOnInsert: true}, nil)
	ctx := context.Background()

	_, _, err := committer.Checkout(ctx, []domain.CartItemRef{{ProductID: a.ID, Quantity: 2}})
	require.Error(t, err)

	got, _ := store.Get(ctx, a.ID)
	assert.Equal(t, 20, got.StockQty)
}
