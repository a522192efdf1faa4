// Package speech озвучивает ответы через внешний TTS-сервис.
//
// Синтез — best-effort: любой сбой означает лишь отсутствие аудио в ответе,
// обработка команды при этом считается успешной.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

const (
	defaultBaseURL = "https://translate.google.com/translate_tts"
	defaultLang    = "en"
	// DefaultTimeout ограничивает один synthesis-вызов.
	DefaultTimeout = 10 * time.Second

	// Ответ больше 5 МБ для короткой фразы — явно не mp3 с озвучкой.
	maxAudioBytes = 5 << 20
)

// Config задаёт параметры TTS-сервиса.
type Config struct {
	// BaseURL переопределяется в тестах; пустой — публичный endpoint.
	BaseURL string
	Lang    string
	Timeout time.Duration
}

// Synthesizer — реализация domain.SpeechSynthesizer поверх gTTS-совместимого endpoint.
type Synthesizer struct {
	cfg    Config
	client *http.Client
	logger *log.Entry
}

// NewSynthesizer создаёт TTS-адаптер.
func NewSynthesizer(cfg Config, logger *log.Entry) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = defaultLang
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "speech")
	}

	return &Synthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Synthesize возвращает base64-кодированный mp3 с озвученным текстом.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", s.cfg.Lang)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build tts request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return "", fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("tts returned empty body")
	}

	return base64.StdEncoding.EncodeToString(audio), nil
}

var _ domain.SpeechSynthesizer = (*Synthesizer)(nil)
