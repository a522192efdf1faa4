// Package rest публикует командный процессор и запросы дашборда по HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// NewRouter собирает chi-маршрутизатор со всеми эндпоинтами сервиса.
func NewRouter(handler *Handler, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Post("/process-command", handler.ProcessCommand)
	r.Get("/download-bill/{id}", handler.DownloadBill)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Get("/customers", handler.ListCustomers)
		r.Get("/transactions", handler.ListTransactions)
		r.Get("/stats", handler.Stats)
	})

	return r
}

// requestLogger пишет одну структурированную запись на запрос.
func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
				"request_id": chimiddleware.GetReqID(r.Context()),
			}).Info("http request")
		})
	}
}
