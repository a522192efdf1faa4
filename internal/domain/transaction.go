package domain

import (
	"strconv"
	"time"
)

// Transaction — неизменяемая запись о завершённом checkout.
type Transaction struct {
	// ID присваивается хранилищем при коммите, монотонно растёт.
	ID        int64
	CreatedAt time.Time
	// TotalAmount — сумма итогов всех списанных позиций.
	TotalAmount float64
	// Summary — человекочитаемые строки вида "<qty> x <name> - Rs.<amount>",
	// соединённые через ", ".
	Summary string
}

// Customer описывает покупателя с балансом (кредит магазина).
type Customer struct {
	ID      int64
	Name    string
	Balance float64
}

// Stats агрегирует показатели для дашборда.
type Stats struct {
	TotalSales    float64 `json:"total_sales"`
	LowStockCount int     `json:"low_stock_count"`
	TotalCredit   float64 `json:"total_credit"`
}

// LowStockThreshold — остаток, ниже которого товар попадает в панель "заканчивается".
const LowStockThreshold = 10

// FormatAmount печатает сумму без лишних нулей: 90 -> "90", 28.5 -> "28.5".
// Используется и в итогах чека, и в голосовых сообщениях.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
