// Package receipt формирует PDF-чеки по завершённым транзакциям.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
)

// DefaultDir — каталог чеков по умолчанию.
const DefaultDir = "receipts"

// Renderer пишет чеки на диск и отдаёт их по идентификатору транзакции.
type Renderer struct {
	dir    string
	logger *log.Entry
}

// NewRenderer создаёт renderer, создавая каталог при необходимости.
func NewRenderer(dir string, logger *log.Entry) (*Renderer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = log.WithField("component", "receipt")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	return &Renderer{dir: dir, logger: logger}, nil
}

// Render сохраняет чек bill_<id>.pdf; items — уже отформатированные строки позиций.
func (r *Renderer) Render(txn domain.Transaction, items []string) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "VOICE SHOP BILL", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Receipt ID: #%d", txn.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", txn.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")

	x, y := pdf.GetXY()
	pdf.Line(10, y+2, 200, y+2)
	pdf.SetXY(x, y+6)

	pdf.CellFormat(0, 8, "ITEMS:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.CellFormat(0, 6, item, "", 1, "L", false, 0, "")
	}

	x, y = pdf.GetXY()
	pdf.Line(10, y+2, 200, y+2)
	pdf.SetXY(x, y+8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("TOTAL: Rs. %s", domain.FormatAmount(txn.TotalAmount)), "", 1, "R", false, 0, "")

	path := r.path(txn.ID)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write receipt %s: %w", path, err)
	}

	r.logger.WithFields(log.Fields{
		"transaction_id": txn.ID,
		"path":           path,
	}).Info("receipt rendered")
	return nil
}

// Open возвращает путь к ранее сгенерированному чеку или ErrReceiptNotFound.
func (r *Renderer) Open(txnID int64) (string, error) {
	path := r.path(txnID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrReceiptNotFound
		}
		return "", fmt.Errorf("stat receipt %s: %w", path, err)
	}
	return path, nil
}

func (r *Renderer) path(txnID int64) string {
	return filepath.Join(r.dir, fmt.Sprintf("bill_%d.pdf", txnID))
}

var _ domain.ReceiptRenderer = (*Renderer)(nil)
