package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	"github.com/vladislavdragonenkov/voicebill/internal/service/command"
)

// recentTransactionsLimit — сколько последних транзакций показывает дашборд.
const recentTransactionsLimit = 10

// Handler обслуживает HTTP-эндпоинты: обработку команд, выдачу чеков
// и read-only запросы дашборда.
type Handler struct {
	processor    *command.Processor
	receipts     domain.ReceiptRenderer
	products     domain.ProductRepository
	customers    domain.CustomerRepository
	transactions domain.TransactionRepository
	logger       *log.Entry
}

// NewHandler собирает HTTP-обработчик поверх командного процессора и репозиториев.
func NewHandler(
	processor *command.Processor,
	receipts domain.ReceiptRenderer,
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	transactions domain.TransactionRepository,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	return &Handler{
		processor:    processor,
		receipts:     receipts,
		products:     products,
		customers:    customers,
		transactions: transactions,
		logger:       logger,
	}
}

type processRequest struct {
	Text        string               `json:"text"`
	CartContext []domain.CartItemRef `json:"cart_context"`
}

type cartLineDTO struct {
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type processResponse struct {
	Message       string        `json:"message"`
	Cart          []cartLineDTO `json:"cart"`
	ActionType    string        `json:"action_type"`
	AudioBase64   *string       `json:"audio_base64"`
	TransactionID *int64        `json:"transaction_id"`
}

type productDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Keywords string  `json:"keywords"`
	Price    float64 `json:"price"`
	StockQty int     `json:"stock_qty"`
}

type customerDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type transactionDTO struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	TotalAmount float64   `json:"total_amount"`
	Summary     string    `json:"summary"`
}

// ProcessCommand обрабатывает POST /process-command.
func (h *Handler) ProcessCommand(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("failed to decode command request")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.processor.Process(r.Context(), req.Text, req.CartContext)

	resp := processResponse{
		Message:       result.Message,
		Cart:          toCartDTO(result.Cart),
		ActionType:    result.Action,
		TransactionID: result.TransactionID,
	}
	if result.AudioBase64 != "" {
		audio := result.AudioBase64
		resp.AudioBase64 = &audio
	}

	writeJSON(w, http.StatusOK, resp)
}

// DownloadBill обрабатывает GET /download-bill/{id}: отдаёт PDF-чек или 404.
func (h *Handler) DownloadBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid bill id"))
		return
	}

	path, err := h.receipts.Open(id)
	if err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			h.logger.WithError(err).Error("failed to open receipt")
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// ListProducts обрабатывает GET /api/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	dto := make([]productDTO, 0, len(products))
	for _, p := range products {
		dto = append(dto, productDTO{ID: p.ID, Name: p.Name, Keywords: p.Keywords, Price: p.Price, StockQty: p.StockQty})
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListCustomers обрабатывает GET /api/customers: покупатели по убыванию баланса.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListByBalanceDesc(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list customers")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	dto := make([]customerDTO, 0, len(customers))
	for _, c := range customers {
		dto = append(dto, customerDTO{ID: c.ID, Name: c.Name, Balance: c.Balance})
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListTransactions обрабатывает GET /api/transactions: последние продажи.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ListRecent(r.Context(), recentTransactionsLimit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list transactions")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	dto := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dto = append(dto, transactionDTO{ID: t.ID, CreatedAt: t.CreatedAt, TotalAmount: t.TotalAmount, Summary: t.Summary})
	}
	writeJSON(w, http.StatusOK, dto)
}

// Stats обрабатывает GET /api/stats: агрегаты для дашборда.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalSales, err := h.transactions.TotalSales(ctx)
	if err != nil {
		h.logger.WithError(err).Error("failed to sum sales")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	lowStock, err := h.products.CountLowStock(ctx, domain.LowStockThreshold)
	if err != nil {
		h.logger.WithError(err).Error("failed to count low stock")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	totalCredit, err := h.customers.TotalPositiveBalance(ctx)
	if err != nil {
		h.logger.WithError(err).Error("failed to sum balances")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Stats{
		TotalSales:    totalSales,
		LowStockCount: lowStock,
		TotalCredit:   totalCredit,
	})
}

func toCartDTO(cart domain.CartContext) []cartLineDTO {
	dto := make([]cartLineDTO, 0, len(cart))
	for _, line := range cart {
		dto = append(dto, cartLineDTO{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		})
	}
	return dto
}
