package domain

import "context"

// IntentClassifier описывает взаимодействие с внешним NLU-оракулом.
type IntentClassifier interface {
	// Classify превращает сырую фразу в типизированный интент.
	// Любой сбой оракула отображается в IntentUnrecognized, ошибок не возвращает.
	Classify(ctx context.Context, text string) Intent
}

// SpeechSynthesizer озвучивает ответ пользователю.
type SpeechSynthesizer interface {
	// Synthesize возвращает base64-кодированный аудиофайл.
	// Ошибка не фатальна: вызывающая сторона просто опускает аудио в ответе.
	Synthesize(ctx context.Context, text string) (string, error)
}

// ReceiptRenderer формирует и отдаёт PDF-чеки.
type ReceiptRenderer interface {
	// Render сохраняет чек по транзакции; позиции приходят уже отформатированными.
	Render(txn Transaction, items []string) error
	// Open возвращает путь к ранее сгенерированному чеку или ErrReceiptNotFound.
	Open(txnID int64) (string, error)
}

// EventPublisher публикует события о продажах наружу (телеметрия, не консистентность).
type EventPublisher interface {
	// PublishTransaction отправляет событие о созданной транзакции.
	PublishTransaction(txn Transaction) error
	// PublishProduct отправляет событие о заведённом товаре.
	PublishProduct(product Product) error
}

// CheckoutStore открывает атомарную единицу работы для checkout.
// Конкурентные checkout по одному товару сериализуются реализацией:
// у PostgreSQL — блокировкой строки внутри транзакции, у in-memory — общим мьютексом.
type CheckoutStore interface {
	Begin(ctx context.Context) (CheckoutTx, error)
}

// CheckoutTx — одна атомарная единица работы checkout.
// Все изменения видны снаружи только после Commit; Rollback отменяет всё.
type CheckoutTx interface {
	// GetProduct возвращает текущее состояние товара или ErrProductNotFound.
	GetProduct(ctx context.Context, id int64) (Product, error)
	// DecrementStock уменьшает остаток товара на qty.
	// Проверка достаточности остатка не выполняется: остаток может уйти в минус.
	DecrementStock(ctx context.Context, id int64, qty int) error
	// InsertTransaction записывает транзакцию и возвращает её с присвоенным ID.
	InsertTransaction(ctx context.Context, total float64, summary string) (Transaction, error)
	Commit() error
	Rollback() error
}
