package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

func TestProductRepository_PostgresCreateGetListCount(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sugar, err := repo.Create(ctx, domain.Product{Name: "Sugar 1kg", Keywords: "sugar shakkar", Price: 45.0, StockQty: 20})
	if err != nil {
		t.Fatalf("create sugar: %v", err)
	}
	if sugar.ID == 0 {
		t.Fatal("expected assigned product ID")
	}

	ghee, err := repo.Create(ctx, domain.Product{Name: "Ghee 500ml", Keywords: "ghee butter", Price: 40.0, StockQty: 3})
	if err != nil {
		t.Fatalf("create ghee: %v", err)
	}

	if _, err := repo.Create(ctx, domain.Product{Name: "sugar 1KG", Price: 50.0}); !errors.Is(err, domain.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct for case-insensitive duplicate, got %v", err)
	}

	got, err := repo.Get(ctx, sugar.ID)
	if err != nil {
		t.Fatalf("get sugar: %v", err)
	}
	if got.Name != "Sugar 1kg" || got.Keywords != "sugar shakkar" || got.Price != 45.0 || got.StockQty != 20 {
		t.Fatalf("unexpected product payload: %+v", got)
	}

	if _, err := repo.Get(ctx, 9999); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	products, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 || products[0].ID != sugar.ID || products[1].ID != ghee.ID {
		t.Fatalf("unexpected list order: %+v", products)
	}

	lowStock, err := repo.CountLowStock(ctx, domain.LowStockThreshold)
	if err != nil {
		t.Fatalf("count low stock: %v", err)
	}
	if lowStock != 1 {
		t.Fatalf("expected 1 low stock product, got %d", lowStock)
	}
}

func TestTransactionRepository_PostgresListAndTotals(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewTransactionRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, txn := range []struct {
		total   float64
		summary string
	}{
		{28.0, "2 x Maggi - Rs.28"},
		{40.0, "1 x Coke - Rs.40"},
		{54.0, "1 x Maggi - Rs.14, 1 x Coke - Rs.40"},
	} {
		if _, err := store.DB().ExecContext(ctx, `
			INSERT INTO transactions (total_amount, summary) VALUES ($1, $2)
		`, txn.total, txn.summary); err != nil {
			t.Fatalf("insert transaction fixture: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(recent))
	}
	if recent[0].Summary != "1 x Maggi - Rs.14, 1 x Coke - Rs.40" || recent[1].Summary != "1 x Coke - Rs.40" {
		t.Fatalf("unexpected recent order: %+v", recent)
	}

	total, err := repo.TotalSales(ctx)
	if err != nil {
		t.Fatalf("total sales: %v", err)
	}
	if total != 122.0 {
		t.Fatalf("expected total sales 122.0, got %v", total)
	}
}

func TestCustomerRepository_PostgresOrderAndBalance(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, c := range []struct {
		name    string
		balance float64
	}{
		{"Asha", 120.0},
		{"Ravi", -30.0},
		{"Meena", 300.0},
	} {
		if _, err := store.DB().ExecContext(ctx, `
			INSERT INTO customers (name, balance) VALUES ($1, $2)
		`, c.name, c.balance); err != nil {
			t.Fatalf("insert customer fixture: %v", err)
		}
	}

	customers, err := repo.ListByBalanceDesc(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(customers))
	}
	if customers[0].Name != "Meena" || customers[1].Name != "Asha" || customers[2].Name != "Ravi" {
		t.Fatalf("unexpected customer order: %+v", customers)
	}

	total, err := repo.TotalPositiveBalance(ctx)
	if err != nil {
		t.Fatalf("total positive balance: %v", err)
	}
	if total != 420.0 {
		t.Fatalf("expected total credit 420.0, got %v", total)
	}
}

func TestCheckoutStore_PostgresCommitAndRollback(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	checkout := NewCheckoutStore(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	maggi, err := products.Create(ctx, domain.Product{Name: "Maggi", Keywords: "noodles snack", Price: 14.0, StockQty: 100})
	if err != nil {
		t.Fatalf("create maggi: %v", err)
	}

	tx, err := checkout.Begin(ctx)
	if err != nil {
		t.Fatalf("begin checkout: %v", err)
	}
	got, err := tx.GetProduct(ctx, maggi.ID)
	if err != nil {
		t.Fatalf("get product in tx: %v", err)
	}
	if got.StockQty != 100 {
		t.Fatalf("unexpected stock in tx: %d", got.StockQty)
	}
	if err := tx.DecrementStock(ctx, maggi.ID, 3); err != nil {
		t.Fatalf("decrement stock: %v", err)
	}
	txn, err := tx.InsertTransaction(ctx, 42.0, "3 x Maggi - Rs.42")
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	if txn.ID == 0 || txn.CreatedAt.IsZero() {
		t.Fatalf("expected assigned transaction ID and timestamp, got %+v", txn)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit checkout: %v", err)
	}

	committed, err := products.Get(ctx, maggi.ID)
	if err != nil {
		t.Fatalf("get maggi after commit: %v", err)
	}
	if committed.StockQty != 97 {
		t.Fatalf("expected stock 97 after commit, got %d", committed.StockQty)
	}

	// Rollback must discard both the decrement and the transaction row.
	tx2, err := checkout.Begin(ctx)
	if err != nil {
		t.Fatalf("begin second checkout: %v", err)
	}
	if err := tx2.DecrementStock(ctx, maggi.ID, 50); err != nil {
		t.Fatalf("decrement stock in second tx: %v", err)
	}
	if _, err := tx2.InsertTransaction(ctx, 700.0, "50 x Maggi - Rs.700"); err != nil {
		t.Fatalf("insert transaction in second tx: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("rollback second tx: %v", err)
	}

	after, err := products.Get(ctx, maggi.ID)
	if err != nil {
		t.Fatalf("get maggi after rollback: %v", err)
	}
	if after.StockQty != 97 {
		t.Fatalf("expected stock 97 after rollback, got %d", after.StockQty)
	}

	transactions, err := NewTransactionRepository(store).ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected single committed transaction, got %d", len(transactions))
	}

	tx3, err := checkout.Begin(ctx)
	if err != nil {
		t.Fatalf("begin third checkout: %v", err)
	}
	if _, err := tx3.GetProduct(ctx, 9999); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound in tx, got %v", err)
	}
	if err := tx3.Rollback(); err != nil {
		t.Fatalf("rollback third tx: %v", err)
	}
}

func TestSeedCatalog_PostgresInsertAndSkip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inserted, skipped, err := store.SeedCatalog(ctx, DefaultCatalog())
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	if inserted != 2 || skipped != 0 {
		t.Fatalf("expected 2 inserted / 0 skipped, got %d / %d", inserted, skipped)
	}

	inserted, skipped, err = store.SeedCatalog(ctx, DefaultCatalog())
	if err != nil {
		t.Fatalf("seed catalog second run: %v", err)
	}
	if inserted != 0 || skipped != 2 {
		t.Fatalf("expected 0 inserted / 2 skipped, got %d / %d", inserted, skipped)
	}
}
