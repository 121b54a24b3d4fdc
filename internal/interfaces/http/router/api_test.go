package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	identityapp "github.com/storeadmin/backend/internal/application/identity"
	inventoryapp "github.com/storeadmin/backend/internal/application/inventory"
	partnerapp "github.com/storeadmin/backend/internal/application/partner"
	salesapp "github.com/storeadmin/backend/internal/application/sales"
	"github.com/storeadmin/backend/internal/infrastructure/auth"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/storeadmin/backend/internal/infrastructure/persistence"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"github.com/storeadmin/backend/internal/interfaces/http/router"
	"github.com/storeadmin/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const adminPassword = "admin-pass-123"

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	log := zap.NewNop()
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)

	customers := persistence.NewGormCustomerRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	warehouses := persistence.NewGormWarehouseRepository(db)
	units := persistence.NewGormUnitRepository(db)
	brands := persistence.NewGormBrandRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	stockItems := persistence.NewGormStockItemRepository(db)
	movements := persistence.NewGormStockMovementRepository(db)
	salesRepo := persistence.NewGormSaleRepository(db)
	users := persistence.NewGormUserRepository(db)
	roles := persistence.NewGormRoleRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "store-admin-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	idempotency := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idempotency.Close() })

	userService := identityapp.NewUserService(users, roles, log)
	created, err := userService.EnsureBootstrapAdmin(context.Background(), identityapp.BootstrapAdmin{
		Username: "admin",
		Email:    "admin@example.com",
		Password: adminPassword,
	})
	require.NoError(t, err)
	require.True(t, created)

	stockService := inventoryapp.NewStockService(stockItems, movements, products)
	posService := salesapp.NewPOSService(
		scope,
		salesapp.POSRepositories{Products: products, Warehouses: warehouses, Customers: customers, Sales: salesRepo},
		salesapp.POSSettings{DefaultTaxRate: decimal.Zero, IdempotencyTTL: time.Hour},
		idempotency,
		salesapp.NewReceiptRenderer("Test Store", "USD", language.English),
		log,
	)

	h := router.Handlers{
		System:    handler.NewSystemHandler("test", nil),
		Auth:      handler.NewAuthHandler(identityapp.NewAuthService(users, roles, jwtService, blacklist, log)),
		User:      handler.NewUserHandler(userService),
		Role:      handler.NewRoleHandler(identityapp.NewRoleService(roles, users, log)),
		Customer:  handler.NewCustomerHandler(partnerapp.NewCustomerService(customers, log)),
		Supplier:  handler.NewSupplierHandler(partnerapp.NewSupplierService(suppliers, log)),
		Warehouse: handler.NewWarehouseHandler(partnerapp.NewWarehouseService(scope, warehouses, stockItems, log)),
		Unit:      handler.NewUnitHandler(catalogapp.NewUnitService(units, products, log)),
		Brand:     handler.NewBrandHandler(catalogapp.NewBrandService(brands, products, log)),
		Category:  handler.NewCategoryHandler(catalogapp.NewCategoryService(categories, products, log)),
		Product: handler.NewProductHandler(catalogapp.NewProductService(catalogapp.ProductRepositories{
			Products: products, Categories: categories, Brands: brands, Units: units,
			Stock: stockItems, Movements: movements, Sales: salesRepo,
		}, log), stockService),
		Stock:      handler.NewStockHandler(stockService),
		Adjustment: handler.NewAdjustmentHandler(inventoryapp.NewAdjustmentService(scope, persistence.NewGormAdjustmentRepository(db), warehouses, products, log)),
		Transfer:   handler.NewTransferHandler(inventoryapp.NewTransferService(scope, persistence.NewGormTransferRepository(db), warehouses, products, log)),
		POS:        handler.NewPOSHandler(posService),
	}

	engine := router.New(router.Options{
		Logger:      log,
		JWT:         middleware.JWTConfig{JWTService: jwtService, Blacklist: blacklist},
		CORS:        middleware.DefaultCORSConfig(),
		MaxBodySize: 1 << 20,
	}, h)

	api := &testAPI{engine: engine, db: db}
	api.token = api.login(t, "admin", adminPassword)
	return api
}

func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	w := testutil.PerformRequest(t, a.engine, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return testutil.DecodeData[identityapp.TokenResponse](t, w).AccessToken
}

func (a *testAPI) do(t *testing.T, token, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	headers = append(headers, "Authorization", "Bearer "+token)
	return testutil.PerformRequest(t, a.engine, method, path, body, headers...)
}

func TestAPI_HealthIsPublic(t *testing.T) {
	api := newTestAPI(t)

	w := testutil.PerformRequest(t, api.engine, http.MethodGet, "/api/v1/health", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w := testutil.PerformRequest(t, api.engine, http.MethodGet, "/api/v1/customers", nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)

	w = testutil.PerformRequest(t, api.engine, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "wrong-password"})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials)
}

func TestAPI_ValidationAndNotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, api.token, http.MethodPost, "/api/v1/customers", map[string]string{"name": "No Code"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = api.do(t, api.token, http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = api.do(t, api.token, http.MethodGet, "/api/v1/customers/"+uuid.NewString(), nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestAPI_CustomerLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, api.token, http.MethodPost, "/api/v1/customers", map[string]string{"code": "C001", "name": "Alice"})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	customer := testutil.DecodeData[partnerapp.CustomerResponse](t, w)

	w = api.do(t, api.token, http.MethodPost, "/api/v1/customers", map[string]string{"code": "C001", "name": "Alice again"})
	testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)

	w = api.do(t, api.token, http.MethodPost, "/api/v1/customers/"+customer.ID.String()+"/deactivate", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = api.do(t, api.token, http.MethodGet, "/api/v1/customers", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	list := testutil.DecodeJSON(t, w)
	assert.EqualValues(t, 1, list["meta"].(map[string]interface{})["total"])

	w = api.do(t, api.token, http.MethodGet, "/api/v1/customers?status=ACTIVE", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Empty(t, testutil.DecodeData[[]partnerapp.CustomerResponse](t, w))

	w = api.do(t, api.token, http.MethodGet, "/api/v1/customers?status=INACTIVE", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Len(t, testutil.DecodeData[[]partnerapp.CustomerResponse](t, w), 1)

	w = api.do(t, api.token, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAPI_StockAndCheckout(t *testing.T) {
	api := newTestAPI(t)
	wh := testutil.SeedWarehouse(t, api.db, "MAIN")
	apple := testutil.SeedProduct(t, api.db, "APPLE", "1.50")

	w := api.do(t, api.token, http.MethodPost, "/api/v1/adjustments", map[string]interface{}{
		"warehouse_id": wh.ID,
		"items": []map[string]interface{}{
			{"product_id": apple.ID, "quantity": "10", "type": "addition"},
		},
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	assert.Equal(t, "10", testutil.StockQuantity(t, api.db, wh.ID, apple.ID).String())

	cart := map[string]interface{}{
		"warehouse_id": wh.ID,
		"lines":        []map[string]interface{}{{"product_id": apple.ID, "quantity": "4"}},
		"payment":      map[string]interface{}{"method": "cash", "paid_amount": "10"},
	}

	w = api.do(t, api.token, http.MethodPost, "/api/v1/pos/quote", cart)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	quote := testutil.DecodeData[salesapp.QuoteResponse](t, w)
	assert.True(t, quote.GrandTotal.Equal(decimal.RequireFromString("6")), quote.GrandTotal.String())

	w = api.do(t, api.token, http.MethodPost, "/api/v1/pos/checkout", cart, handler.IdempotencyKeyHeader, "key-1")
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	sale := testutil.DecodeData[salesapp.SaleResponse](t, w)
	assert.True(t, sale.ChangeAmount.Equal(decimal.RequireFromString("4")))
	assert.Equal(t, "6", testutil.StockQuantity(t, api.db, wh.ID, apple.ID).String())

	w = api.do(t, api.token, http.MethodPost, "/api/v1/pos/checkout", cart, handler.IdempotencyKeyHeader, "key-1")
	testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeDuplicateRequest)
	assert.Equal(t, "6", testutil.StockQuantity(t, api.db, wh.ID, apple.ID).String())

	cart["lines"] = []map[string]interface{}{{"product_id": apple.ID, "quantity": "100"}}
	cart["payment"] = map[string]interface{}{"method": "card", "paid_amount": "150"}
	w = api.do(t, api.token, http.MethodPost, "/api/v1/pos/checkout", cart)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock)
	assert.Equal(t, "6", testutil.StockQuantity(t, api.db, wh.ID, apple.ID).String())

	w = api.do(t, api.token, http.MethodGet, "/api/v1/sales/"+sale.ID.String()+"/receipt", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), sale.Reference)

	w = api.do(t, api.token, http.MethodGet, "/api/v1/products/"+apple.ID.String()+"/stock", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
}

func TestAPI_AdjustmentEditAndDelete(t *testing.T) {
	api := newTestAPI(t)
	wh := testutil.SeedWarehouse(t, api.db, "MAIN")
	pear := testutil.SeedProduct(t, api.db, "PEAR", "0.80")

	body := func(qty, typ string) map[string]interface{} {
		return map[string]interface{}{
			"warehouse_id": wh.ID,
			"items":        []map[string]interface{}{{"product_id": pear.ID, "quantity": qty, "type": typ}},
		}
	}

	w := api.do(t, api.token, http.MethodPost, "/api/v1/adjustments", body("10", "ADDITION"))
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	adj := testutil.DecodeData[inventoryapp.AdjustmentResponse](t, w)
	require.Len(t, adj.Items, 1)
	assert.Equal(t, "addition", adj.Items[0].Type)
	assert.Equal(t, "10", testutil.StockQuantity(t, api.db, wh.ID, pear.ID).String())

	path := "/api/v1/adjustments/" + adj.ID.String()

	w = api.do(t, api.token, http.MethodPut, path, body("4", "addition"))
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "4", testutil.StockQuantity(t, api.db, wh.ID, pear.ID).String())

	// reverting +4 and taking 20 would go below zero
	w = api.do(t, api.token, http.MethodPut, path, body("20", "SUBTRACTION"))
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock)
	assert.Equal(t, "4", testutil.StockQuantity(t, api.db, wh.ID, pear.ID).String())

	w = api.do(t, api.token, http.MethodPut, path, body("1", "sideways"))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = api.do(t, api.token, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.True(t, testutil.StockQuantity(t, api.db, wh.ID, pear.ID).IsZero())

	w = api.do(t, api.token, http.MethodGet, path, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = api.do(t, api.token, http.MethodGet, "/api/v1/stock/movements?source_type=adjustment&source_id="+adj.ID.String(), nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Len(t, testutil.DecodeData[[]inventoryapp.MovementResponse](t, w), 3)
}

func TestAPI_PermissionsAreEnforced(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, api.token, http.MethodPost, "/api/v1/roles", map[string]interface{}{
		"name":        "viewer",
		"permissions": []string{"customer:read"},
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	role := testutil.DecodeData[identityapp.RoleResponse](t, w)

	w = api.do(t, api.token, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"username": "viewer1",
		"email":    "viewer1@example.com",
		"password": "viewer-pass-1",
		"role_id":  role.ID,
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	viewer := testutil.DecodeData[identityapp.UserResponse](t, w)

	token := api.login(t, "viewer1", "viewer-pass-1")

	w = api.do(t, token, http.MethodGet, "/api/v1/customers", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = api.do(t, token, http.MethodPost, "/api/v1/customers", map[string]string{"code": "C9", "name": "Nope"})
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	w = api.do(t, token, http.MethodPost, "/api/v1/customers/"+uuid.NewString()+"/activate", nil)
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	w = api.do(t, token, http.MethodPost, "/api/v1/pos/checkout", map[string]string{})
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	// own password needs no user permission
	w = api.do(t, token, http.MethodPut, "/api/v1/users/"+viewer.ID.String()+"/password", map[string]string{
		"old_password": "viewer-pass-1",
		"new_password": "viewer-pass-2",
	})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	api.login(t, "viewer1", "viewer-pass-2")

	w = api.do(t, token, http.MethodGet, "/api/v1/auth/me", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	me := testutil.DecodeData[identityapp.UserInfo](t, w)
	assert.Equal(t, []string{"customer:read"}, me.Permissions)
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, api.token, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(t, api.token, http.MethodGet, "/api/v1/auth/me", nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenRevoked)
}
