// Package command связывает классификацию интента, нечёткий поиск, корзину
// и checkout в обработку одной голосовой команды.
package command

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	"github.com/vladislavdragonenkov/voicebill/internal/fuzzy"
	"github.com/vladislavdragonenkov/voicebill/internal/metrics"
	"github.com/vladislavdragonenkov/voicebill/internal/service/cart"
	"github.com/vladislavdragonenkov/voicebill/internal/service/checkout"
)

// Processor обрабатывает одну команду за вызов. Состояния между запросами нет:
// корзина приходит в запросе и возвращается в ответе.
type Processor struct {
	classifier domain.IntentClassifier
	products   domain.ProductRepository
	committer  *checkout.Committer
	receipts   domain.ReceiptRenderer
	speech     domain.SpeechSynthesizer
	publisher  domain.EventPublisher // nil — события не публикуются
	metrics    *metrics.CommandMetrics
	logger     *log.Entry
}

// NewProcessor собирает обработчик команд. publisher и metrics опциональны.
func NewProcessor(
	classifier domain.IntentClassifier,
	products domain.ProductRepository,
	committer *checkout.Committer,
	receipts domain.ReceiptRenderer,
	speech domain.SpeechSynthesizer,
	publisher domain.EventPublisher,
	commandMetrics *metrics.CommandMetrics,
	logger *log.Entry,
) *Processor {
	if logger == nil {
		logger = log.WithField("component", "command")
	}
	return &Processor{
		classifier: classifier,
		products:   products,
		committer:  committer,
		receipts:   receipts,
		speech:     speech,
		publisher:  publisher,
		metrics:    commandMetrics,
		logger:     logger,
	}
}

// Process классифицирует фразу и выполняет соответствующее действие.
func (p *Processor) Process(ctx context.Context, text string, cartRefs []domain.CartItemRef) Result {
	intent := p.classifier.Classify(ctx, text)
	p.recordIntent(intent.Type)

	existing := p.hydrateCart(ctx, cartRefs)

	var result Result
	switch intent.Type {
	case domain.IntentAddToCart:
		result = p.handleAdd(ctx, intent, existing)
	case domain.IntentRemoveFromCart:
		result = p.handleRemove(ctx, intent, existing)
	case domain.IntentCheckStock:
		result = p.handleCheckStock(ctx, intent, existing)
	case domain.IntentCreateProduct:
		result = p.handleCreateProduct(ctx, intent, existing)
	case domain.IntentCheckout:
		result = p.handleCheckout(ctx, cartRefs, existing)
	default:
		result = Result{Message: fallbackMessage, Cart: existing, Action: ActionError}
	}

	result.AudioBase64 = p.synthesize(ctx, result.Message)
	return result
}

// hydrateCart восстанавливает контекст корзины из wire-ссылок.
// Позиции с удалёнными товарами отбрасываются; цена берётся из текущего каталога,
// поскольку wire-формат снимок цены не переносит.
func (p *Processor) hydrateCart(ctx context.Context, refs []domain.CartItemRef) domain.CartContext {
	hydrated := make(domain.CartContext, 0, len(refs))
	for _, ref := range refs {
		product, err := p.products.Get(ctx, ref.ProductID)
		if err != nil {
			if !domain.IsNotFound(err) {
				p.logger.WithError(err).WithField("product_id", ref.ProductID).Error("hydrate cart lookup failed")
			}
			continue
		}
		qty := ref.Quantity
		if qty < 1 {
			qty = 1
		}
		if i := hydrated.FindLine(product.ID); i >= 0 {
			hydrated[i].Quantity += qty
			hydrated[i].TotalPrice += float64(qty) * hydrated[i].UnitPrice
			continue
		}
		hydrated = append(hydrated, domain.CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   qty,
			UnitPrice:  product.Price,
			TotalPrice: float64(qty) * product.Price,
		})
	}
	return hydrated
}

// resolveItems прогоняет распознанные фразы через нечёткий поиск по каталогу.
func (p *Processor) resolveItems(ctx context.Context, items []domain.RequestedItem) []cart.ResolvedItem {
	catalog, err := p.products.List(ctx)
	if err != nil {
		p.logger.WithError(err).Error("catalog listing failed, treating all phrases as unmatched")
		catalog = nil
	}

	resolved := make([]cart.ResolvedItem, 0, len(items))
	for _, item := range items {
		product, ok := fuzzy.Resolve(item.ProductName, catalog)
		resolved = append(resolved, cart.ResolvedItem{
			Phrase:   item.ProductName,
			Quantity: item.Quantity,
			Product:  product,
			Matched:  ok,
		})
	}
	return resolved
}

func (p *Processor) handleAdd(ctx context.Context, intent domain.Intent, existing domain.CartContext) Result {
	resolved := p.resolveItems(ctx, intent.Items)
	next, fragments := cart.Add(existing, resolved)
	return Result{
		Message: addMessage(fragments),
		Cart:    next,
		Action:  ActionAdd,
	}
}

func (p *Processor) handleRemove(ctx context.Context, intent domain.Intent, existing domain.CartContext) Result {
	resolved := p.resolveItems(ctx, intent.Items)
	next, fragments := cart.Remove(existing, resolved)
	return Result{
		Message: removeMessage(fragments),
		Cart:    next,
		Action:  ActionRemove,
	}
}

func (p *Processor) handleCheckStock(ctx context.Context, intent domain.Intent, existing domain.CartContext) Result {
	resolved := p.resolveItems(ctx, intent.Items)

	fragments := make([]string, 0, len(resolved))
	for _, item := range resolved {
		if !item.Matched {
			continue
		}
		fragments = append(fragments, stockFragment(item.Product))
	}

	return Result{
		Message: stockMessage(fragments),
		Cart:    existing,
		Action:  ActionInfo,
	}
}

func (p *Processor) handleCreateProduct(ctx context.Context, intent domain.Intent, existing domain.CartContext) Result {
	spec := intent.NewProduct
	product := domain.Product{
		Name:     spec.Name,
		Keywords: defaultKeywords(spec.Name),
		Price:    spec.Price,
		StockQty: spec.Stock,
	}

	if errs := product.Validate(); len(errs) > 0 {
		p.logger.WithField("errors", errs).Warn("create product rejected by validation")
		return Result{Message: createFailedMessage, Cart: existing, Action: ActionError}
	}

	created, err := p.products.Create(ctx, product)
	if err != nil {
		// Дубликат и сбой хранилища различимы в логах и тестах,
		// пользователю — одно и то же вежливое сообщение.
		if domain.IsNotFound(err) || err == domain.ErrDuplicateProduct {
			p.logger.WithField("name", product.Name).Warn("create product: duplicate name")
		} else {
			p.logger.WithError(err).Error("create product failed")
		}
		return Result{Message: createFailedMessage, Cart: existing, Action: ActionError}
	}

	p.publishProduct(created)
	return Result{
		Message: createdMessage(created.Name),
		Cart:    existing,
		Action:  ActionCreate,
	}
}

func (p *Processor) handleCheckout(ctx context.Context, cartRefs []domain.CartItemRef, existing domain.CartContext) Result {
	started := time.Now()
	txn, summary, err := p.committer.Checkout(ctx, cartRefs)
	p.recordCheckout(err, time.Since(started))

	if err != nil {
		switch {
		case err == domain.ErrEmptyCart:
			return Result{Message: emptyCartMessage, Cart: existing, Action: ActionError}
		case err == domain.ErrNothingToCharge:
			return Result{Message: nothingToChargeMessage, Cart: existing, Action: ActionError}
		default:
			p.logger.WithError(err).Error("checkout failed")
			return Result{Message: checkoutFailedMessage, Cart: existing, Action: ActionError}
		}
	}

	// Чек и событие — best-effort: транзакция уже зафиксирована.
	if p.receipts != nil {
		if rErr := p.receipts.Render(txn, summary); rErr != nil {
			p.logger.WithError(rErr).WithField("transaction_id", txn.ID).Error("receipt rendering failed")
		}
	}
	p.publishTransaction(txn)

	txnID := txn.ID
	return Result{
		Message:       checkoutMessage(txn.TotalAmount),
		Cart:          domain.CartContext{}, // следующая корзина клиента пуста
		Action:        ActionCheckout,
		TransactionID: &txnID,
	}
}

func (p *Processor) synthesize(ctx context.Context, message string) string {
	if p.speech == nil || message == "" {
		return ""
	}
	audio, err := p.speech.Synthesize(ctx, message)
	if err != nil {
		p.logger.WithError(err).Warn("speech synthesis failed, omitting audio")
		if p.metrics != nil {
			p.metrics.RecordAudioFailure()
		}
		return ""
	}
	return audio
}

func (p *Processor) publishTransaction(txn domain.Transaction) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishTransaction(txn); err != nil {
		p.logger.WithError(err).Warn("transaction event publish failed")
	}
}

func (p *Processor) publishProduct(product domain.Product) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishProduct(product); err != nil {
		p.logger.WithError(err).Warn("product event publish failed")
	}
}

func (p *Processor) recordIntent(intent domain.IntentType) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordCommand(string(intent))
	if intent == domain.IntentUnrecognized {
		p.metrics.RecordOracleFailure()
	}
}

func (p *Processor) recordCheckout(err error, duration time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordCheckoutDuration(duration)
	switch {
	case err == nil:
		p.metrics.RecordCheckout("committed")
	case domain.IsCheckoutRejected(err):
		p.metrics.RecordCheckout("rejected")
	default:
		p.metrics.RecordCheckout("failed")
	}
}
