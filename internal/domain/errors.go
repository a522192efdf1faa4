package domain

import "errors"

var (
	// Ошибка пустого имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного начального остатка.
	ErrProductStockNegative = errors.New("product stock must be non-negative")
	// Ошибка при некорректном количестве в позиции корзины (<= 0).
	ErrLineQtyInvalid = errors.New("cart line quantity must be greater than zero")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct сигнализирует о попытке создать товар с уже занятым именем.
	ErrDuplicateProduct = errors.New("product already exists")
	// ErrEmptyCart — checkout вызван с пустой корзиной; транзакция не создаётся.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNothingToCharge — все позиции корзины ссылались на отсутствующие товары,
	// итоговая сумма равна нулю и списывать нечего.
	ErrNothingToCharge = errors.New("nothing to charge")
	// ErrTransactionNotFound возвращается при запросе несуществующей транзакции.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrReceiptNotFound возвращается, если чек по транзакции ещё не сгенерирован.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// IsNotFound проверяет, относится ли ошибка к классу "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrReceiptNotFound)
}

// IsCheckoutRejected проверяет, является ли ошибка бизнес-отказом checkout
// (в отличие от сбоя хранилища).
func IsCheckoutRejected(err error) bool {
	return errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrNothingToCharge)
}
