package sales

import (
	"context"
	"fmt"

	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorage stores and fetches opaque blobs by key
type ObjectStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
}

const receiptContentType = "text/plain; charset=utf-8"

// ReceiptArchiver handles SaleCompletedEvent by uploading the rendered
// receipt and recording its key on the sale
type ReceiptArchiver struct {
	saleRepo sales.SaleRepository
	storage  ObjectStorage
	renderer *ReceiptRenderer
	prefix   string
	logger   *zap.Logger
}

// NewReceiptArchiver creates a new ReceiptArchiver
func NewReceiptArchiver(saleRepo sales.SaleRepository, storage ObjectStorage, renderer *ReceiptRenderer, logger *zap.Logger) *ReceiptArchiver {
	return &ReceiptArchiver{
		saleRepo: saleRepo,
		storage:  storage,
		renderer: renderer,
		prefix:   DefaultReceiptPrefix,
		logger:   logger,
	}
}

// SetKeyPrefix changes the storage folder receipts are written to
func (h *ReceiptArchiver) SetKeyPrefix(prefix string) {
	if prefix != "" {
		h.prefix = prefix
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReceiptArchiver) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted}
}

// Handle archives the receipt of the completed sale
func (h *ReceiptArchiver) Handle(ctx context.Context, event shared.DomainEvent) error {
	if _, ok := event.(*sales.SaleCompletedEvent); !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleCompleted, event.EventType())
	}
	if h.storage == nil {
		return nil
	}

	sale, err := h.saleRepo.FindByID(ctx, event.AggregateID())
	if err != nil {
		return fmt.Errorf("load sale %s: %w", event.AggregateID(), err)
	}
	key := receiptKey(h.prefix, sale)
	if err := h.storage.PutObject(ctx, key, receiptContentType, []byte(h.renderer.Render(sale))); err != nil {
		h.logger.Error("Failed to archive receipt", zap.String("reference", sale.Reference), zap.Error(err))
		return err
	}
	if err := h.saleRepo.UpdateReceiptKey(ctx, sale.ID, key); err != nil {
		return err
	}

	h.logger.Info("Receipt archived", zap.String("reference", sale.Reference), zap.String("key", key))
	return nil
}

var _ shared.EventHandler = (*ReceiptArchiver)(nil)
