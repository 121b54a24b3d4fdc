package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Role       *handler.RoleHandler
	Customer   *handler.CustomerHandler
	Supplier   *handler.SupplierHandler
	Warehouse  *handler.WarehouseHandler
	Unit       *handler.UnitHandler
	Brand      *handler.BrandHandler
	Category   *handler.CategoryHandler
	Product    *handler.ProductHandler
	Stock      *handler.StockHandler
	Adjustment *handler.AdjustmentHandler
	Transfer   *handler.TransferHandler
	POS        *handler.POSHandler
}

// Options configures the engine built by New
type Options struct {
	Logger      *zap.Logger
	JWT         middleware.JWTConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// ServiceName enables OpenTelemetry request spans when non-empty
	ServiceName string
}

// New builds the engine with the global middleware stack and all API routes.
// Middleware order: request ID, tracing, access log, recovery, security
// headers, CORS, body limit.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	if opts.ServiceName != "" {
		engine.Use(middleware.Tracing(opts.ServiceName)...)
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(opts.CORS))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	if opts.JWT.Logger == nil {
		opts.JWT.Logger = log
	}
	mount(engine, apiGroups(h, middleware.JWTAuth(opts.JWT), log)...)
	return engine
}

// apiGroups lays out the API. Every group but /health and the public
// auth endpoints sits behind jwt.
func apiGroups(h Handlers, jwt gin.HandlerFunc, log *zap.Logger) []*resourceGroup {
	can := guard(func(resource, action string) gin.HandlerFunc {
		return middleware.RequirePermission(resource+":"+action, log)
	})

	system := newGroup("")
	system.handle(http.MethodGet, "/health", h.System.Health)

	authPublic := newGroup("/auth")
	authPublic.handle(http.MethodPost, "/login", h.Auth.Login)
	authPublic.handle(http.MethodPost, "/refresh", h.Auth.Refresh)

	session := newGroup("/auth", jwt)
	session.handle(http.MethodPost, "/logout", h.Auth.Logout)
	session.handle(http.MethodGet, "/me", h.Auth.Me)

	customers := newGroup("/customers", jwt)
	customers.crud(identity.ResourceCustomer, can, crudHandlers{h.Customer.Create, h.Customer.List, h.Customer.GetByID, h.Customer.Update, h.Customer.Delete})
	customers.statusRoutes(identity.ResourceCustomer, can, h.Customer.Activate, h.Customer.Deactivate)

	suppliers := newGroup("/suppliers", jwt)
	suppliers.crud(identity.ResourceSupplier, can, crudHandlers{h.Supplier.Create, h.Supplier.List, h.Supplier.GetByID, h.Supplier.Update, h.Supplier.Delete})
	suppliers.statusRoutes(identity.ResourceSupplier, can, h.Supplier.Activate, h.Supplier.Deactivate)

	warehouses := newGroup("/warehouses", jwt)
	warehouses.handle(http.MethodGet, "/default", can(identity.ResourceWarehouse, identity.ActionRead), h.Warehouse.GetDefault)
	warehouses.crud(identity.ResourceWarehouse, can, crudHandlers{h.Warehouse.Create, h.Warehouse.List, h.Warehouse.GetByID, h.Warehouse.Update, h.Warehouse.Delete})
	warehouses.handle(http.MethodPost, "/:id/default", can(identity.ResourceWarehouse, identity.ActionUpdate), h.Warehouse.SetDefault)
	warehouses.statusRoutes(identity.ResourceWarehouse, can, h.Warehouse.Activate, h.Warehouse.Deactivate)

	units := newGroup("/units", jwt)
	units.crud(identity.ResourceUnit, can, crudHandlers{h.Unit.Create, h.Unit.List, h.Unit.GetByID, h.Unit.Update, h.Unit.Delete})

	brands := newGroup("/brands", jwt)
	brands.crud(identity.ResourceBrand, can, crudHandlers{h.Brand.Create, h.Brand.List, h.Brand.GetByID, h.Brand.Update, h.Brand.Delete})

	categories := newGroup("/categories", jwt)
	categories.crud(identity.ResourceCategory, can, crudHandlers{h.Category.Create, h.Category.List, h.Category.GetByID, h.Category.Update, h.Category.Delete})

	products := newGroup("/products", jwt)
	products.handle(http.MethodGet, "/low-stock", can(identity.ResourceProduct, identity.ActionRead), h.Product.LowStock)
	products.crud(identity.ResourceProduct, can, crudHandlers{h.Product.Create, h.Product.List, h.Product.GetByID, h.Product.Update, h.Product.Delete})
	products.statusRoutes(identity.ResourceProduct, can, h.Product.Activate, h.Product.Deactivate)
	products.handle(http.MethodGet, "/:id/stock", can(identity.ResourceStock, identity.ActionRead), h.Product.Stock)

	stock := newGroup("/stock", jwt, middleware.RequireResource(identity.ResourceStock, log))
	stock.handle(http.MethodGet, "", h.Stock.ListStock)
	stock.handle(http.MethodGet, "/movements", h.Stock.ListMovements)

	adjustments := newGroup("/adjustments", jwt)
	adjustments.crud(identity.ResourceAdjustment, can, crudHandlers{h.Adjustment.Create, h.Adjustment.List, h.Adjustment.GetByID, h.Adjustment.Update, h.Adjustment.Delete})

	transfers := newGroup("/transfers", jwt)
	transfers.crud(identity.ResourceTransfer, can, crudHandlers{h.Transfer.Create, h.Transfer.List, h.Transfer.GetByID, h.Transfer.Update, h.Transfer.Delete})

	pos := newGroup("/pos", jwt, can(identity.ResourceSale, identity.ActionCreate))
	pos.handle(http.MethodPost, "/quote", h.POS.Quote)
	pos.handle(http.MethodPost, "/checkout", h.POS.Checkout)

	sales := newGroup("/sales", jwt, middleware.RequireResource(identity.ResourceSale, log))
	sales.handle(http.MethodGet, "", h.POS.ListSales)
	sales.handle(http.MethodGet, "/:id", h.POS.GetSale)
	sales.handle(http.MethodGet, "/:id/receipt", h.POS.GetReceipt)

	users := newGroup("/users", jwt)
	users.crud(identity.ResourceUser, can, crudHandlers{h.User.Create, h.User.List, h.User.GetByID, h.User.Update, h.User.Delete})
	// own password; the handler checks admin rights for anyone else's
	users.handle(http.MethodPut, "/:id/password", h.User.ChangePassword)
	users.statusRoutes(identity.ResourceUser, can, h.User.Activate, h.User.Deactivate)

	roles := newGroup("/roles", jwt)
	roles.crud(identity.ResourceRole, can, crudHandlers{h.Role.Create, h.Role.List, h.Role.GetByID, h.Role.Update, h.Role.Delete})

	permissions := newGroup("/permissions", jwt, can(identity.ResourceRole, identity.ActionRead))
	permissions.handle(http.MethodGet, "", h.Role.Permissions)

	return []*resourceGroup{
		system, authPublic, session,
		customers, suppliers, warehouses,
		units, brands, categories, products,
		stock, adjustments, transfers,
		pos, sales,
		users, roles, permissions,
	}
}
