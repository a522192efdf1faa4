// Package checkout превращает контекст корзины в списание остатков
// и одну неизменяемую запись транзакции.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// Committer выполняет checkout как одну атомарную единицу работы.
type Committer struct {
	store  domain.CheckoutStore
	logger *log.Entry
}

// NewCommitter создаёт committer поверх хранилища.
func NewCommitter(store domain.CheckoutStore, logger *log.Entry) *Committer {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Committer{store: store, logger: logger}
}

// Checkout валидирует корзину против текущего каталога, списывает остатки и
// записывает транзакцию. Возвращает также строки чека для PDF.
//
// Правила:
//   - пустая корзина — ErrEmptyCart, единица работы даже не открывается;
//   - позиция с отсутствующим товаром пропускается молча (best-effort);
//   - сумма считается по текущей цене каталога, не по снимку корзины;
//   - нулевая итоговая сумма — ErrNothingToCharge, откат;
//   - любой сбой хранилища — полный откат, частичное списание снаружи не видно.
func (c *Committer) Checkout(ctx context.Context, cart []domain.CartItemRef) (domain.Transaction, []string, error) {
	if len(cart) == 0 {
		return domain.Transaction{}, nil, domain.ErrEmptyCart
	}

	tx, err := c.store.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, nil, fmt.Errorf("begin checkout: %w", err)
	}

	txn, summary, err := c.commit(ctx, tx, cart)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.WithError(rbErr).Error("checkout rollback failed")
		}
		return domain.Transaction{}, nil, err
	}

	return txn, summary, nil
}

func (c *Committer) commit(ctx context.Context, tx domain.CheckoutTx, cart []domain.CartItemRef) (domain.Transaction, []string, error) {
	var (
		total   float64
		summary []string
		skipped int
	)

	for _, ref := range cart {
		product, err := tx.GetProduct(ctx, ref.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// Товар могли удалить после добавления в корзину; позицию пропускаем.
				skipped++
				continue
			}
			return domain.Transaction{}, nil, fmt.Errorf("lookup product %d: %w", ref.ProductID, err)
		}

		if err := tx.DecrementStock(ctx, product.ID, ref.Quantity); err != nil {
			return domain.Transaction{}, nil, fmt.Errorf("decrement stock for product %d: %w", product.ID, err)
		}

		lineTotal := product.Price * float64(ref.Quantity)
		total += lineTotal
		summary = append(summary, fmt.Sprintf("%d x %s - Rs.%s", ref.Quantity, product.Name, domain.FormatAmount(lineTotal)))
	}

	if total <= 0 {
		c.logger.WithField("skipped", skipped).Info("checkout produced nothing to charge")
		return domain.Transaction{}, nil, domain.ErrNothingToCharge
	}

	txn, err := tx.InsertTransaction(ctx, total, strings.Join(summary, ", "))
	if err != nil {
		return domain.Transaction{}, nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, nil, fmt.Errorf("commit checkout: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"transaction_id": txn.ID,
		"total":          txn.TotalAmount,
		"lines":          len(summary),
		"skipped":        skipped,
	}).Info("checkout committed")

	return txn, summary, nil
}
