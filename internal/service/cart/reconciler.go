// Package cart реализует слияние распознанных позиций с корзиной запроса.
//
// Корзина не хранится на сервере: каждый вызов получает контекст от клиента
// и возвращает новый. Функции пакета чистые, хранилище не трогают.
package cart

import (
	"fmt"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// ResolvedItem — результат нечёткого разрешения одной произнесённой позиции.
type ResolvedItem struct {
	// Phrase — исходная фраза пользователя (для сообщения "couldn't find").
	Phrase string
	// Quantity — запрошенное количество.
	Quantity int
	// Product заполнен, только если Matched.
	Product domain.Product
	Matched bool
}

// Add вливает распознанные позиции в корзину.
// Позиция с уже существующим product id наращивает количество и сумму,
// цена при этом остаётся снимком первого добавления. Нераспознанные фразы
// не меняют корзину и дают фрагмент сообщения "couldn't find <phrase>".
func Add(existing domain.CartContext, resolved []ResolvedItem) (domain.CartContext, []string) {
	next := make(domain.CartContext, len(existing))
	copy(next, existing)

	fragments := make([]string, 0, len(resolved))
	for _, item := range resolved {
		if !item.Matched {
			fragments = append(fragments, fmt.Sprintf("couldn't find %s", item.Phrase))
			continue
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		if i := next.FindLine(item.Product.ID); i >= 0 {
			next[i].Quantity += qty
			next[i].TotalPrice += float64(qty) * next[i].UnitPrice
		} else {
			next = append(next, domain.CartLine{
				ProductID:  item.Product.ID,
				Name:       item.Product.Name,
				Quantity:   qty,
				UnitPrice:  item.Product.Price,
				TotalPrice: float64(qty) * item.Product.Price,
			})
		}
		fragments = append(fragments, fmt.Sprintf("%d %s", qty, item.Product.Name))
	}

	return next, fragments
}

// Remove убирает из корзины позиции целиком: любое совпадение по product id
// удаляет всю строку, частичное уменьшение количества не выполняется.
func Remove(existing domain.CartContext, resolved []ResolvedItem) (domain.CartContext, []string) {
	drop := make(map[int64]struct{}, len(resolved))
	fragments := make([]string, 0, len(resolved))
	for _, item := range resolved {
		if !item.Matched {
			fragments = append(fragments, fmt.Sprintf("couldn't find %s", item.Phrase))
			continue
		}
		drop[item.Product.ID] = struct{}{}
		fragments = append(fragments, item.Product.Name)
	}

	next := make(domain.CartContext, 0, len(existing))
	for _, line := range existing {
		if _, found := drop[line.ProductID]; found {
			continue
		}
		next = append(next, line)
	}

	return next, fragments
}
