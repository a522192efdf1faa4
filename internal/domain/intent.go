package domain

// IntentType описывает распознанное намерение пользователя.
type IntentType string

const (
	// IntentAddToCart — добавить товары в корзину.
	IntentAddToCart IntentType = "add_to_cart"
	// IntentRemoveFromCart — убрать товары из корзины.
	IntentRemoveFromCart IntentType = "remove_from_cart"
	// IntentCheckout — оформить покупку по текущей корзине.
	IntentCheckout IntentType = "checkout"
	// IntentCheckStock — спросить остаток товара.
	IntentCheckStock IntentType = "check_stock"
	// IntentCreateProduct — завести новый товар в каталоге.
	IntentCreateProduct IntentType = "create_product"
	// IntentUnrecognized — оракул не смог классифицировать фразу либо сам недоступен.
	IntentUnrecognized IntentType = "unrecognized"
)

// Valid проверяет, что тип относится к поддерживаемым значениям.
func (t IntentType) Valid() bool {
	switch t {
	case IntentAddToCart, IntentRemoveFromCart, IntentCheckout,
		IntentCheckStock, IntentCreateProduct, IntentUnrecognized:
		return true
	default:
		return false
	}
}

// RequestedItem — распознанная пара "фраза товара + количество".
type RequestedItem struct {
	ProductName string
	Quantity    int
}

// NewProductSpec — поля нового товара из фразы "create product ...".
type NewProductSpec struct {
	Name  string
	Price float64
	Stock int
}

// Intent — закрытый tagged union поверх динамического ответа оракула.
// Payload зависит от типа: Items для add/remove/check_stock,
// NewProduct для create_product.
type Intent struct {
	Type       IntentType
	Items      []RequestedItem
	NewProduct *NewProductSpec
}

// Unrecognized возвращает интент-заглушку для любых сбоев классификации.
func Unrecognized() Intent {
	return Intent{Type: IntentUnrecognized}
}
