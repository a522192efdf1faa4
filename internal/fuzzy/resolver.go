// Package fuzzy сопоставляет произнесённое название товара с каталогом.
package fuzzy

import (
	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// MatchThreshold — минимальный балл (строго больше), при котором кандидат
// считается совпадением. Шкала token-set ratio: 0–100.
const MatchThreshold = 60

// Resolve находит наиболее похожий на phrase товар в каталоге.
// Каталог должен приходить в детерминированном порядке (ID по возрастанию):
// при равных баллах побеждает первый встреченный кандидат.
// Пустой каталог и балл <= MatchThreshold дают (zero, false).
func Resolve(phrase string, catalog []domain.Product) (domain.Product, bool) {
	if len(catalog) == 0 {
		return domain.Product{}, false
	}

	best := -1
	bestScore := -1
	for i, p := range catalog {
		score := fuzzywuzzy.TokenSetRatio(phrase, p.MatchKey())
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore > MatchThreshold {
		return catalog[best], true
	}
	return domain.Product{}, false
}
