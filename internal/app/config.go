package app

import (
	"os"
	"time"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного API (команды, чеки, дашборд).
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера (/metrics, /healthz, /livez).
	MetricsAddr string
	// DatabaseURL — DSN PostgreSQL; пустой — in-memory хранилище.
	DatabaseURL string
	// GeminiAPIKey — ключ NLU-оракула; без него все команды распознаются как Unrecognized.
	GeminiAPIKey string
	// GeminiModel — имя модели; пустое — значение по умолчанию клиента.
	GeminiModel string
	// OracleTimeout — таймаут запроса к оракулу.
	OracleTimeout time.Duration
	// TTSBaseURL переопределяет endpoint синтеза речи (для тестов и прокси).
	TTSBaseURL string
	// KafkaBrokers — список брокеров через запятую; пустой — события не публикуются.
	KafkaBrokers string
	// ReceiptsDir — каталог сгенерированных PDF-чеков.
	ReceiptsDir string
}

// DefaultConfig возвращает базовые настройки.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8000",
		MetricsAddr: ":9090",
		ReceiptsDir: "receipts",
	}
}

// ConfigFromEnv формирует конфигурацию из переменных окружения
// поверх значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("VOICEBILL_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("VOICEBILL_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if v := os.Getenv("ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OracleTimeout = d
		}
	}
	cfg.TTSBaseURL = os.Getenv("TTS_BASE_URL")
	cfg.KafkaBrokers = os.Getenv("KAFKA_BROKERS")
	if v := os.Getenv("RECEIPTS_DIR"); v != "" {
		cfg.ReceiptsDir = v
	}
	return cfg
}
