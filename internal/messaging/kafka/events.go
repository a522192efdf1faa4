package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	// События продаж
	EventTypeTransactionCreated EventType = "transaction.created"
	// События каталога
	EventTypeProductCreated EventType = "product.created"
)

// Topics для Kafka
const (
	TopicSalesEvents   = "voicebill.sales.events"
	TopicCatalogEvents = "voicebill.catalog.events"
)

// TransactionEvent представляет событие о созданной транзакции.
// Публикуется после коммита; дашборд и внешняя аналитика читают его как телеметрию.
type TransactionEvent struct {
	EventID     string    `json:"event_id"`
	EventType   EventType `json:"event_type"`
	TxnID       int64     `json:"transaction_id"`
	TotalAmount float64   `json:"total_amount"`
	Summary     string    `json:"summary"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProductEvent представляет событие о заведённом товаре.
type ProductEvent struct {
	EventID   string    `json:"event_id"`
	EventType EventType `json:"event_type"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	StockQty  int       `json:"stock_qty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent создает событие по транзакции.
func NewTransactionEvent(txn domain.Transaction) *TransactionEvent {
	return &TransactionEvent{
		EventID:     uuid.NewString(),
		EventType:   EventTypeTransactionCreated,
		TxnID:       txn.ID,
		TotalAmount: txn.TotalAmount,
		Summary:     txn.Summary,
		Timestamp:   time.Now().UTC(),
	}
}

// NewProductEvent создает событие по новому товару.
func NewProductEvent(product domain.Product) *ProductEvent {
	return &ProductEvent{
		EventID:   uuid.NewString(),
		EventType: EventTypeProductCreated,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		StockQty:  product.StockQty,
		Timestamp: time.Now().UTC(),
	}
}
