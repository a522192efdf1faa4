package domain

// CartLine представляет одну позицию корзины.
type CartLine struct {
	ProductID int64
	Name      string
	Quantity  int
	// UnitPrice — снимок цены на момент первого добавления,
	// не живая ссылка на каталог.
	UnitPrice  float64
	TotalPrice float64
}

// CartContext — корзина целиком, принадлежащая вызывающей стороне.
// Сервер её не хранит: контекст приходит с каждым запросом и возвращается обратно.
// Инвариант: не более одной позиции на product id.
type CartContext []CartLine

// FindLine возвращает индекс позиции с данным товаром или -1.
func (c CartContext) FindLine(productID int64) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartItemRef — входная (wire) форма позиции корзины: только идентификатор и количество.
type CartItemRef struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
