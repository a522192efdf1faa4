package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	"github.com/vladislavdragonenkov/voicebill/internal/storage/memory"
	"github.com/vladislavdragonenkov/voicebill/internal/storage/postgres"
)

// Storage объединяет репозитории и checkout-хранилище одной реализации.
type Storage struct {
	Products     domain.ProductRepository
	Customers    domain.CustomerRepository
	Transactions domain.TransactionRepository
	Checkout     domain.CheckoutStore

	// Ping проверяет доступность хранилища (для health check).
	Ping func(ctx context.Context) error
	// Close освобождает ресурсы хранилища.
	Close func() error
}

// initStorage выбирает реализацию хранилища: PostgreSQL при заданном DSN,
// иначе in-memory с тем же стартовым каталогом.
func initStorage(ctx context.Context, databaseURL string, logger *log.Entry) (*Storage, error) {
	if databaseURL == "" {
		logger.Info("DATABASE_URL is not set, using in-memory storage")
		return initMemoryStorage(ctx, logger)
	}
	return initPostgresStorage(ctx, databaseURL, logger)
}

func initMemoryStorage(ctx context.Context, logger *log.Entry) (*Storage, error) {
	store := memory.NewStore()

	for _, product := range postgres.DefaultCatalog() {
		if _, err := store.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("seed in-memory catalog: %w", err)
		}
	}
	logger.WithField("products", len(postgres.DefaultCatalog())).Info("in-memory catalog seeded")

	return &Storage{
		Products:     store,
		Customers:    store,
		Transactions: store,
		Checkout:     store,
		Ping:         func(context.Context) error { return nil },
		Close:        func() error { return nil },
	}, nil
}

func initPostgresStorage(ctx context.Context, databaseURL string, logger *log.Entry) (*Storage, error) {
	store, err := postgres.Open(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	inserted, skipped, err := store.SeedCatalog(ctx, postgres.DefaultCatalog())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	logger.WithFields(log.Fields{
		"inserted": inserted,
		"skipped":  skipped,
	}).Info("postgres catalog seeded")

	return &Storage{
		Products:     postgres.NewProductRepository(store),
		Customers:    postgres.NewCustomerRepository(store),
		Transactions: postgres.NewTransactionRepository(store),
		Checkout:     postgres.NewCheckoutStore(store),
		Ping:         store.Ping,
		Close:        store.Close,
	}, nil
}
