package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinv "github.com/storeadmin/backend/internal/application/inventory"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const idempotencyPrefix = "checkout:"

// POSRepositories groups the read-side repositories the POS needs
type POSRepositories struct {
	Products   catalog.ProductRepository
	Warehouses partner.WarehouseRepository
	Customers  partner.CustomerRepository
	Sales      sales.SaleRepository
}

// POSSettings are the configurable POS defaults
type POSSettings struct {
	DefaultTaxRate decimal.Decimal
	IdempotencyTTL time.Duration
}

// POSService prices carts and turns them into sales.
// Checkout deducts stock and records the sale in one transaction.
type POSService struct {
	scope          appinv.TransactionScope
	repos          POSRepositories
	settings       POSSettings
	idempotency    shared.IdempotencyStore
	renderer       *ReceiptRenderer
	storage        ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPOSService creates a new POSService
func NewPOSService(
	scope appinv.TransactionScope,
	repos POSRepositories,
	settings POSSettings,
	idempotency shared.IdempotencyStore,
	renderer *ReceiptRenderer,
	logger *zap.Logger,
) *POSService {
	return &POSService{
		scope:       scope,
		repos:       repos,
		settings:    settings,
		idempotency: idempotency,
		renderer:    renderer,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for sale events
func (s *POSService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReceiptStorage lets GetReceipt serve archived receipts
func (s *POSService) SetReceiptStorage(storage ObjectStorage) {
	s.storage = storage
}

// Quote prices the cart against the current products without writing anything
func (s *POSService) Quote(ctx context.Context, req CartRequest) (*QuoteResponse, error) {
	cart, err := s.buildCart(ctx, req)
	if err != nil {
		return nil, err
	}
	totals, err := cart.Totals()
	if err != nil {
		return nil, err
	}
	resp := toQuoteResponse(cart, totals)
	return &resp, nil
}

// Checkout re-prices the cart, deducts stock and records the sale.
// A non-empty idempotencyKey already seen within the TTL fails with
// DUPLICATE_REQUEST before anything is written.
func (s *POSService) Checkout(ctx context.Context, req CheckoutRequest, idempotencyKey string, cashierID *uuid.UUID) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pos", "checkout")
	defer func() { telemetry.EndSpan(span, err) }()

	if idempotencyKey != "" && s.idempotency != nil {
		key := idempotencyPrefix + idempotencyKey
		claimed, claimErr := s.idempotency.MarkProcessed(ctx, key, s.settings.IdempotencyTTL)
		if claimErr != nil {
			return nil, claimErr
		}
		if !claimed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This checkout was already submitted")
		}
		defer func() {
			if err != nil {
				if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
					s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
				}
			}
		}()
	}

	if err := s.checkWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	cart, err := s.buildCart(ctx, req.CartRequest)
	if err != nil {
		return nil, err
	}
	sale, err := sales.NewSale(cart, req.Payment.payment(), cashierID, req.Note)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		src := inventory.MovementSource{
			Type:      inventory.SourceTypeSale,
			ID:        sale.ID,
			Reference: sale.Reference,
			Reason:    "pos checkout",
		}
		if _, err := ledger.Replace(ctx, nil, sale.StockDeltas(), src); err != nil {
			return err
		}
		return repos.SaleRepo().Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sale.reference", sale.Reference),
		attribute.String("sale.grand_total", sale.GrandTotal.String()),
	)
	s.logger.Info("Sale completed",
		zap.String("reference", sale.Reference),
		zap.String("grand_total", sale.GrandTotal.StringFixed(sales.MoneyPlaces)),
		zap.Int("items", len(sale.Items)),
	)
	s.publishEvents(ctx, sale)

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetSale retrieves a sale by ID
func (s *POSService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.repos.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales retrieves sales matching the filter
func (s *POSService) ListSales(ctx context.Context, filter SaleListFilter) ([]SaleResponse, error) {
	f, err := filter.domain()
	if err != nil {
		return nil, err
	}
	list, err := s.repos.Sales.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]SaleResponse, len(list))
	for i := range list {
		out[i] = ToSaleResponse(&list[i])
	}
	return out, nil
}

// GetReceipt returns the archived receipt text, rendering it when no archive exists
func (s *POSService) GetReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	sale, err := s.repos.Sales.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage != nil && sale.ReceiptKey != "" {
		data, err := s.storage.GetObject(ctx, sale.ReceiptKey)
		if err == nil {
			return string(data), nil
		}
		s.logger.Warn("Archived receipt unavailable, rendering",
			zap.String("reference", sale.Reference),
			zap.Error(err),
		)
	}
	return s.renderer.Render(sale), nil
}

// buildCart snapshots the current name and selling price of every line's product
func (s *POSService) buildCart(ctx context.Context, req CartRequest) (*sales.Cart, error) {
	products, err := s.repos.Products.FindByIDs(ctx, req.productIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	cart := &sales.Cart{
		WarehouseID: req.WarehouseID,
		CustomerID:  req.CustomerID,
		Lines:       make([]sales.CartLine, 0, len(req.Lines)),
		Discount:    req.Discount,
		Shipping:    req.Shipping,
		TaxRate:     s.settings.DefaultTaxRate,
	}
	if req.TaxRate != nil {
		cart.TaxRate = *req.TaxRate
	}
	for _, l := range req.Lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found: "+l.ProductID.String())
		}
		if !p.IsActive() {
			return nil, shared.NewDomainError("INVALID_STATE", "Product "+p.Code+" is not for sale")
		}
		cart.Lines = append(cart.Lines, sales.CartLine{
			ProductID:   p.ID,
			ProductCode: p.Code,
			ProductName: p.Name,
			UnitPrice:   p.SellingPrice,
			Quantity:    l.Quantity,
		})
	}
	return cart, nil
}

func (s *POSService) checkWarehouse(ctx context.Context, id uuid.UUID) error {
	w, err := s.repos.Warehouses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Warehouse not found")
		}
		return err
	}
	if !w.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Warehouse "+w.Code+" is inactive")
	}
	return nil
}

func (s *POSService) checkCustomer(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.repos.Customers.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Customer not found")
		}
		return err
	}
	return nil
}

// publishEvents hands the sale's events to the publisher after commit
func (s *POSService) publishEvents(ctx context.Context, sale *sales.Sale) {
	events := sale.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish sale events", zap.String("reference", sale.Reference), zap.Error(err))
	}
}
