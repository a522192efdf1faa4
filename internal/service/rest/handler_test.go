package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	"github.com/vladislavdragonenkov/voicebill/internal/oracle"
	"github.com/vladislavdragonenkov/voicebill/internal/service/checkout"
	"github.com/vladislavdragonenkov/voicebill/internal/service/command"
	"github.com/vladislavdragonenkov/voicebill/internal/storage/memory"
)

type staticSpeech struct{}

func (staticSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	return "YXVkaW8=", nil
}

type dirReceipts struct {
	dir string
}

func (r dirReceipts) Render(txn domain.Transaction, items []string) error {
	return os.WriteFile(r.path(txn.ID), []byte("%PDF-1.4 test"), 0o644)
}

func (r dirReceipts) Open(txnID int64) (string, error) {
	path := r.path(txnID)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrReceiptNotFound
	}
	return path, nil
}

func (r dirReceipts) path(txnID int64) string {
	return filepath.Join(r.dir, "bill_"+strconv.FormatInt(txnID, 10)+".pdf")
}

type restFixture struct {
	store    *memory.Store
	receipts dirReceipts
	router   http.Handler
}

func newRESTFixture(t *testing.T, classify oracle.Func) *restFixture {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Create(ctx, domain.Product{Name: "Maggi", Keywords: "noodles snack", Price: 14.0, StockQty: 100})
	require.NoError(t, err)
	_, err = store.Create(ctx, domain.Product{Name: "Coke", Keywords: "soda drink", Price: 40.0, StockQty: 5})
	require.NoError(t, err)

	store.AddCustomer(domain.Customer{Name: "Asha", Balance: 150.0})
	store.AddCustomer(domain.Customer{Name: "Ravi", Balance: -20.0})

	receipts := dirReceipts{dir: t.TempDir()}
	committer := checkout.NewCommitter(store, nil)
	processor := command.NewProcessor(classify, store, committer, receipts, staticSpeech{}, nil, nil, nil)
	handler := NewHandler(processor, receipts, store, store, store, nil)

	return &restFixture{
		store:    store,
		receipts: receipts,
		router:   NewRouter(handler, nil),
	}
}

func (f *restFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func addIntent(items ...domain.RequestedItem) oracle.Func {
	return func(ctx context.Context, text string) domain.Intent {
		return domain.Intent{Type: domain.IntentAddToCart, Items: items}
	}
}

func checkoutIntent() oracle.Func {
	return func(ctx context.Context, text string) domain.Intent {
		return domain.Intent{Type: domain.IntentCheckout}
	}
}

func TestProcessCommand_AddReturnsCartAndAudio(t *testing.T) {
	f := newRESTFixture(t, addIntent(domain.RequestedItem{ProductName: "maggi", Quantity: 2}))

	rec := f.do(t, http.MethodPost, "/process-command", map[string]any{
		"text":         "add two maggi",
		"cart_context": []map[string]any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message       string          `json:"message"`
		Cart          []cartLineDTO   `json:"cart"`
		ActionType    string          `json:"action_type"`
		AudioBase64   *string         `json:"audio_base64"`
		TransactionID json.RawMessage `json:"transaction_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Added 2 Maggi", resp.Message)
	assert.Equal(t, "add", resp.ActionType)
	require.Len(t, resp.Cart, 1)
	assert.Equal(t, int64(1), resp.Cart[0].ProductID)
	assert.Equal(t, 2, resp.Cart[0].Quantity)
	assert.Equal(t, 14.0, resp.Cart[0].UnitPrice)
	assert.Equal(t, 28.0, resp.Cart[0].TotalPrice)
	require.NotNil(t, resp.AudioBase64)
	assert.Equal(t, "YXVkaW8=", *resp.AudioBase64)
	assert.Equal(t, "null", string(resp.TransactionID))
}

func TestProcessCommand_CheckoutEmitsTransactionAndBill(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodPost, "/process-command", map[string]any{
		"text": "checkout",
		"cart_context": []map[string]any{
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp processResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Bill saved. Total is 68 rupees.", resp.Message)
	assert.Equal(t, "checkout", resp.ActionType)
	assert.Empty(t, resp.Cart)
	require.NotNil(t, resp.TransactionID)

	// Чек должен скачиваться по только что присвоенному ID.
	billRec := f.do(t, http.MethodGet, "/download-bill/"+strconv.FormatInt(*resp.TransactionID, 10), nil)
	require.Equal(t, http.StatusOK, billRec.Code)
	assert.Equal(t, "application/pdf", billRec.Header().Get("Content-Type"))
}

func TestProcessCommand_BadJSONIsBadRequest(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	req := httptest.NewRequest(http.MethodPost, "/process-command", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadBill_UnknownIDIsNotFound(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodGet, "/download-bill/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestDownloadBill_InvalidIDIsBadRequest(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodGet, "/download-bill/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts_ReturnsCatalogInIDOrder(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []productDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Maggi", products[0].Name)
	assert.Equal(t, "Coke", products[1].Name)
	assert.Equal(t, 5, products[1].StockQty)
}

func TestListCustomers_OrderedByBalanceDesc(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var customers []customerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 2)
	assert.Equal(t, "Asha", customers[0].Name)
	assert.Equal(t, "Ravi", customers[1].Name)
}

func TestListTransactions_MostRecentFirst(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/process-command", map[string]any{
			"text": "checkout",
			"cart_context": []map[string]any{
				{"product_id": 1, "quantity": 1},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var transactions []transactionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transactions))
	require.Len(t, transactions, 2)
	assert.Greater(t, transactions[0].ID, transactions[1].ID)
	assert.Equal(t, "1 x Maggi - Rs.14", transactions[0].Summary)
}

func TestStats_AggregatesSalesStockAndCredit(t *testing.T) {
	f := newRESTFixture(t, checkoutIntent())

	rec := f.do(t, http.MethodPost, "/process-command", map[string]any{
		"text": "checkout",
		"cart_context": []map[string]any{
			{"product_id": 2, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	statsRec := f.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, statsRec.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.Equal(t, 40.0, stats.TotalSales)
	// Ниже порога только Coke (остаток 4 после продажи).
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 150.0, stats.TotalCredit)
}
