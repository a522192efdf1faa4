// Package oracle оборачивает внешний NLU-сервис (Gemini) в адаптер классификации.
//
// Адаптер никогда не возвращает ошибку наверх: любой сбой транспорта или
// некорректный ответ модели деградируют в IntentUnrecognized. Ретраев нет —
// одна best-effort попытка на запрос.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash-preview-09-2025"
	// DefaultTimeout ограничивает один вызов оракула.
	DefaultTimeout = 15 * time.Second

	promptTemplate = `You are a cashier API. Extract data from: %q
Return JSON:
{
    "intent": "add_to_cart" | "remove_from_cart" | "checkout" | "check_stock" | "create_product",
    "items": [ { "product_name": "string", "quantity": number } ],
    "new_product": { "name": "string", "price": number, "stock": number }
}`
)

// Config задаёт параметры подключения к Gemini.
type Config struct {
	// BaseURL переопределяется в тестах; пустой — реальный endpoint.
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Classifier — реализация domain.IntentClassifier поверх Gemini generateContent.
type Classifier struct {
	cfg    Config
	client *http.Client
	logger *log.Entry
}

// NewClassifier создаёт адаптер оракула.
func NewClassifier(cfg Config, logger *log.Entry) *Classifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "oracle")
	}

	return &Classifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Форма запроса и ответа generateContent (используется только нужное подмножество).
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// intentPayload — сырой динамический ответ модели до маппинга в domain.Intent.
type intentPayload struct {
	Intent string `json:"intent"`
	Items  []struct {
		ProductName string  `json:"product_name"`
		Quantity    float64 `json:"quantity"`
	} `json:"items"`
	NewProduct *struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Stock float64 `json:"stock"`
	} `json:"new_product"`
}

// Classify выполняет один вызов оракула и нормализует ответ.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Intent {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.generate(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		c.logger.WithError(err).Warn("oracle call failed, degrading to unrecognized")
		return domain.Unrecognized()
	}

	payload, err := parsePayload(raw)
	if err != nil {
		c.logger.WithError(err).WithField("raw_len", len(raw)).Warn("oracle returned malformed payload")
		return domain.Unrecognized()
	}

	return mapIntent(payload)
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call oracle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var gen generateResponse
	if err := json.Unmarshal(data, &gen); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("oracle response has no candidates")
	}

	return gen.Candidates[0].Content.Parts[0].Text, nil
}

// parsePayload снимает markdown-ограждения и декодирует JSON строгим декодером.
func parsePayload(raw string) (intentPayload, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var payload intentPayload
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&payload); err != nil {
		return intentPayload{}, fmt.Errorf("decode intent payload: %w", err)
	}
	return payload, nil
}

// mapIntent переводит динамический payload в закрытый tagged union.
// Всё, что не распознано чисто, превращается в IntentUnrecognized.
func mapIntent(payload intentPayload) domain.Intent {
	intentType := domain.IntentType(payload.Intent)
	if !intentType.Valid() || intentType == domain.IntentUnrecognized {
		return domain.Unrecognized()
	}

	intent := domain.Intent{Type: intentType}

	switch intentType {
	case domain.IntentAddToCart, domain.IntentRemoveFromCart, domain.IntentCheckStock:
		for _, item := range payload.Items {
			name := strings.TrimSpace(item.ProductName)
			if name == "" {
				continue
			}
			qty := int(item.Quantity)
			if qty < 1 {
				qty = 1
			}
			intent.Items = append(intent.Items, domain.RequestedItem{
				ProductName: name,
				Quantity:    qty,
			})
		}
		if len(intent.Items) == 0 {
			return domain.Unrecognized()
		}
	case domain.IntentCreateProduct:
		if payload.NewProduct == nil || strings.TrimSpace(payload.NewProduct.Name) == "" {
			return domain.Unrecognized()
		}
		intent.NewProduct = &domain.NewProductSpec{
			Name:  strings.TrimSpace(payload.NewProduct.Name),
			Price: payload.NewProduct.Price,
			Stock: int(payload.NewProduct.Stock),
		}
	}

	return intent
}

var _ domain.IntentClassifier = (*Classifier)(nil)
