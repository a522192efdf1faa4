package oracle

import (
	"context"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// Func адаптирует функцию к domain.IntentClassifier; удобно в тестах и для заглушек.
type Func func(ctx context.Context, text string) domain.Intent

// Classify вызывает обёрнутую функцию.
func (f Func) Classify(ctx context.Context, text string) domain.Intent {
	return f(ctx, text)
}

var _ domain.IntentClassifier = (Func)(nil)
