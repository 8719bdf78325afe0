// Package router wires HTTP handlers into a gin engine.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/pos/backend/internal/application/catalog"
	apppartner "github.com/pos/backend/internal/application/partner"
	appregister "github.com/pos/backend/internal/application/register"
	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/handler"
)

// Services groups the application services the router exposes.
type Services struct {
	Checkout *appsales.CheckoutService
	Register *appregister.RegisterService
	Customer *apppartner.CustomerService
	Product  *appcatalog.ProductService
}

// New builds the gin engine with middleware and all routes registered.
func New(cfg *config.Config, log *zap.Logger, svcs Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		log.Warn("Failed to register custom validations", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(corsMiddleware(cfg.HTTP.CORSAllowOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	saleHandler := handler.NewSaleHandler(svcs.Checkout)
	registerHandler := handler.NewRegisterHandler(svcs.Register)
	customerHandler := handler.NewCustomerHandler(svcs.Customer)
	productHandler := handler.NewProductHandler(svcs.Product)

	v1 := engine.Group("/api/v1")
	{
		sales := v1.Group("/sales")
		{
			sales.POST("/checkout", saleHandler.Checkout)
			sales.GET("", saleHandler.List)
			sales.GET("/:id", saleHandler.GetByID)
			sales.GET("/number/:number", saleHandler.GetByNumber)
			sales.POST("/:id/cancel", saleHandler.Cancel)
		}

		registers := v1.Group("/registers")
		{
			registers.POST("/open", registerHandler.Open)
			registers.GET("", registerHandler.List)
			registers.GET("/current", registerHandler.GetCurrent)
			registers.GET("/:id", registerHandler.GetByID)
			registers.GET("/:id/summary", registerHandler.GetSummary)
			registers.POST("/:id/deposits", registerHandler.Deposit)
			registers.POST("/:id/withdrawals", registerHandler.Withdraw)
			registers.POST("/:id/expenses", registerHandler.RecordExpense)
			registers.POST("/:id/close", registerHandler.Close)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/debtors", customerHandler.ListDebtors)
			customers.GET("/:id", customerHandler.GetByID)
			customers.GET("/document/:document", customerHandler.GetByDocument)
			customers.PUT("/:id/credit-limit", customerHandler.UpdateCreditLimit)
			customers.POST("/:id/payments", customerHandler.CollectPayment)
			customers.POST("/:id/debt-adjustments", customerHandler.AdjustDebt)
		}

		products := v1.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.GetByID)
			products.GET("/sku/:sku", productHandler.GetBySKU)
			products.PUT("/:id/price", productHandler.UpdatePrice)
			products.POST("/:id/stock/add", productHandler.AddStock)
			products.POST("/:id/stock/remove", productHandler.RemoveStock)
		}
	}

	return engine
}

func corsMiddleware(allowOrigins []string) gin.HandlerFunc {
	allowAll := len(allowOrigins) == 0
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-User-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
