package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/server/handlers"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Farm          *handlers.FarmHandler
	Inventory     *handlers.InventoryHandler
	Sales         *handlers.SalesHandler
	Finance       *handlers.FinanceHandler
	Analysis      *handlers.AnalysisHandler
	Reports       *handlers.ReportHandler
	Permissions   *handlers.PermissionHandler
	Notifications *handlers.NotificationHandler
}

// Options configures cross-cutting middleware.
type Options struct {
	JWTSecret  string
	Authorizer Authorizer
	Metrics    *metrics.Metrics
	// Ready reports storage health for /healthz. Nil means always ready.
	Ready func() error
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(metricsMiddleware(opts.Metrics))
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if opts.Ready != nil {
			if err := opts.Ready(); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := gate{secret: []byte(opts.JWTSecret), authz: opts.Authorizer, logger: logger}
	api := r.Group("/api")

	sheds := api.Group("/kandang", g.require(models.FeatureSheds))
	sheds.GET("", h.Farm.ListSheds)
	sheds.POST("", h.Farm.CreateShed)
	sheds.GET("/:id", h.Farm.GetShed)
	sheds.PUT("/:id", h.Farm.UpdateShed)
	sheds.DELETE("/:id", h.Farm.DeleteShed)

	logs := api.Group("/data-harian", g.require(models.FeatureDailyLogs))
	logs.GET("", h.Farm.ListDailyLogs)
	logs.POST("", h.Farm.CreateDailyLog)
	logs.GET("/:id", h.Farm.GetDailyLog)
	logs.DELETE("/:id", h.Farm.DeleteDailyLog)

	health := api.Group("/kesehatan", g.require(models.FeatureHealth))
	health.GET("/data", h.Farm.ListHealthRecords)
	health.POST("/data", h.Farm.CreateHealthRecord)
	health.GET("/jadwal-vaksin", h.Farm.ListVaccines)
	health.POST("/jadwal-vaksin", h.Farm.CreateVaccine)
	health.PUT("/jadwal-vaksin/:id/selesai", h.Farm.CompleteVaccine)

	stock := api.Group("/stok", g.require(models.FeatureStock))
	stock.GET("", h.Inventory.ListStock)
	stock.POST("", h.Inventory.CreateStock)
	stock.GET("/:id", h.Inventory.GetStock)
	stock.PUT("/:id", h.Inventory.UpdateStock)
	stock.DELETE("/:id", h.Inventory.DeleteStock)

	eggs := api.Group("/harga-telur", g.require(models.FeatureEggs))
	eggs.GET("", h.Inventory.ListEggPrices)
	eggs.POST("", h.Inventory.CreateEggPrice)

	sales := api.Group("/penjualan", g.require(models.FeatureSales))
	sales.GET("", h.Sales.List)
	sales.POST("", h.Sales.Create)
	sales.GET("/next-number", h.Sales.NextNumber)
	sales.GET("/:id", h.Sales.Get)
	sales.PUT("/:id", h.Sales.Update)
	sales.DELETE("/:id", h.Sales.Delete)

	finance := api.Group("/keuangan", g.require(models.FeatureFinance))
	finance.GET("/piutang", h.Finance.ListReceivables)
	finance.POST("/piutang", h.Finance.CreateReceivable)
	finance.POST("/piutang/:id/pembayaran", h.Finance.PayReceivable)
	finance.GET("/utang", h.Finance.ListPayables)
	finance.POST("/utang", h.Finance.CreatePayable)
	finance.POST("/utang/:id/pembayaran", h.Finance.PayPayable)
	finance.GET("/pemasukan", h.Finance.ListCash(models.CashIncome))
	finance.POST("/pemasukan", h.Finance.CreateCash(models.CashIncome))
	finance.GET("/pengeluaran", h.Finance.ListCash(models.CashExpense))
	finance.POST("/pengeluaran", h.Finance.CreateCash(models.CashExpense))

	reports := api.Group("/reports", g.require(models.FeatureReports))
	reports.GET("/export", h.Reports.Export)

	ai := api.Group("/ai", g.require(models.FeatureAIAnalysis))
	ai.POST("/analysis", h.Analysis.Analyze)
	ai.POST("/feed-optimization", h.Analysis.OptimizeFeed)
	ai.GET("/analyses", h.Analysis.List)

	settings := api.Group("", g.require(models.FeatureSettings))
	settings.GET("/role-permissions", h.Permissions.List)
	settings.POST("/role-permissions", h.Permissions.Set)
	settings.PUT("/role-permissions", h.Permissions.Reseed)
	settings.POST("/notifications", h.Notifications.Send)

	logger.Info("router initialized", zap.Bool("auth_enabled", opts.JWTSecret != ""))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
