package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetrics содержит метрики обработки голосовых команд.
type CommandMetrics struct {
	// Счётчики по типам интентов
	commands *prometheus.CounterVec

	// Checkout: исходы и длительность
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram

	// Деградации адаптеров
	oracleFailures prometheus.Counter
	audioFailures  prometheus.Counter
}

// NewCommandMetrics создаёт новый экземпляр метрик команд.
func NewCommandMetrics() *CommandMetrics {
	return newCommandMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCommandMetricsWithRegisterer(registerer prometheus.Registerer) *CommandMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CommandMetrics{
		commands: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "voicebill_commands_total",
			Help: "Total number of voice commands processed, by classified intent",
		}, []string{"intent"}),
		checkouts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "voicebill_checkouts_total",
			Help: "Total number of checkout attempts, by result",
		}, []string{"result"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "voicebill_checkout_duration_seconds",
			Help:    "Duration of checkout units of work in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		oracleFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "voicebill_oracle_failures_total",
			Help: "Total number of oracle calls degraded to the unrecognized intent",
		}),
		audioFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "voicebill_audio_failures_total",
			Help: "Total number of speech synthesis attempts that produced no audio",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCommand увеличивает счётчик команд по типу интента.
func (m *CommandMetrics) RecordCommand(intent string) {
	m.commands.WithLabelValues(intent).Inc()
}

// RecordCheckout фиксирует исход checkout: committed, rejected или failed.
func (m *CommandMetrics) RecordCheckout(result string) {
	m.checkouts.WithLabelValues(result).Inc()
}

// RecordCheckoutDuration записывает длительность единицы работы checkout.
func (m *CommandMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordOracleFailure увеличивает счётчик деградаций оракула.
func (m *CommandMetrics) RecordOracleFailure() {
	m.oracleFailures.Inc()
}

// RecordAudioFailure увеличивает счётчик несинтезированных аудиоответов.
func (m *CommandMetrics) RecordAudioFailure() {
	m.audioFailures.Inc()
}
