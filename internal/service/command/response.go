package command

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// Action — тег действия в ответе клиенту.
const (
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionCreate   = "create"
	ActionCheckout = "checkout"
	ActionInfo     = "info"
	ActionError    = "error"
)

const (
	fallbackMessage        = "I didn't understand that."
	emptyCartMessage       = "Cart is empty."
	nothingToChargeMessage = "Nothing to charge. The cart items are no longer in the catalog."
	checkoutFailedMessage  = "Error saving the bill. Please try again."
	createFailedMessage    = "Error creating product."
)

// Result — итог обработки одной команды: сообщение, новая корзина,
// тег действия и необязательные аудио/идентификатор транзакции.
type Result struct {
	Message       string
	Cart          domain.CartContext
	Action        string
	AudioBase64   string
	TransactionID *int64
}

func addMessage(fragments []string) string {
	return "Added " + strings.Join(fragments, ", ")
}

func removeMessage(fragments []string) string {
	if len(fragments) == 0 {
		return "Nothing to remove."
	}
	return "Removed " + strings.Join(fragments, ", ")
}

func stockFragment(product domain.Product) string {
	return fmt.Sprintf("%s: %d left", product.Name, product.StockQty)
}

func stockMessage(fragments []string) string {
	if len(fragments) == 0 {
		return "I couldn't find those products."
	}
	return strings.Join(fragments, ". ")
}

func createdMessage(name string) string {
	return fmt.Sprintf("Created %s.", name)
}

func checkoutMessage(total float64) string {
	return fmt.Sprintf("Bill saved. Total is %s rupees.", domain.FormatAmount(total))
}

// defaultKeywords — ключевые слова нового товара по умолчанию:
// его имя в нижнем регистре.
func defaultKeywords(name string) string {
	return strings.ToLower(name)
}
