package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"holdops/internal/config"
	"holdops/internal/handler"
	"holdops/internal/middleware"
	"holdops/internal/service"
)

// Setup configures the Gin engine with all routes and middleware. limiter
// may be nil to disable rate limiting.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	tokenSvc service.TokenService,
	limiter *middleware.RateLimiter,
	companyH *handler.CompanyHandler,
	reportH *handler.ReportHandler,
	digestH *handler.DigestHandler,
	chatH *handler.ChatHandler,
	kvH *handler.KVHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Protected routes - require a valid team token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokenSvc))
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}

	v1.GET("/companies", companyH.List)

	reports := v1.Group("/reports")
	reports.GET("/consolidated/monthly", reportH.Consolidated)
	reports.GET("/:company/monthly", reportH.Monthly)
	reports.GET("/:company/expense-trend", reportH.ExpenseTrend)
	reports.GET("/:company/aging/:side", reportH.Aging)
	reports.GET("/:company/:kind", reportH.Flat)
	reports.POST("/:company/:kind/export", reportH.Export)
	reports.POST("/:company/:kind/sheet", reportH.Sheet)

	v1.GET("/sheets/values", reportH.SheetValues)
	v1.POST("/digests", digestH.Create)
	v1.POST("/chat", chatH.Ask)

	kv := v1.Group("/kv")
	kv.GET("", kvH.List)
	kv.GET("/*key", kvH.Get)
	kv.PUT("/*key", kvH.Put)
	kv.DELETE("/*key", kvH.Delete)

	return r
}
