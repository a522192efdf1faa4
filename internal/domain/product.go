package domain

// Product описывает позицию каталога.
type Product struct {
	// ID — стабильный идентификатор товара.
	ID int64
	// Name — отображаемое имя.
	Name string
	// Keywords — свободный текст для нечёткого поиска (синонимы, разговорные названия).
	Keywords string
	// Price — цена за единицу.
	Price float64
	// StockQty — текущий остаток; уменьшается только при checkout.
	StockQty int
}

// MatchKey возвращает строку, по которой товар сопоставляется с произнесённой фразой.
func (p Product) MatchKey() string {
	if p.Keywords == "" {
		return p.Name
	}
	return p.Name + " " + p.Keywords
}

// Validate проверяет инварианты товара при создании.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}
	if p.StockQty < 0 {
		errs = append(errs, ErrProductStockNegative)
	}

	return errs
}
