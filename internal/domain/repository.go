package domain

import "context"

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар и возвращает его с присвоенным ID.
	// Возвращает ErrDuplicateProduct, если имя уже занято.
	Create(ctx context.Context, product Product) (Product, error)
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(ctx context.Context, id int64) (Product, error)
	// List возвращает весь каталог, отсортированный по ID по возрастанию.
	// Детерминированный порядок нужен нечёткому поиску для стабильного tie-break.
	List(ctx context.Context) ([]Product, error)
	// CountLowStock возвращает число товаров с остатком ниже threshold.
	CountLowStock(ctx context.Context, threshold int) (int, error)
}

// TransactionRepository описывает доступ к журналу транзакций.
type TransactionRepository interface {
	// ListRecent возвращает последние транзакции по убыванию ID.
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
	// TotalSales возвращает сумму всех транзакций.
	TotalSales(ctx context.Context) (float64, error)
}

// CustomerRepository описывает доступ к покупателям.
type CustomerRepository interface {
	// ListByBalanceDesc возвращает покупателей по убыванию баланса.
	ListByBalanceDesc(ctx context.Context) ([]Customer, error)
	// TotalPositiveBalance возвращает сумму положительных балансов.
	TotalPositiveBalance(ctx context.Context) (float64, error)
}
