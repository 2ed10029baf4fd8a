package handler

import (
	"walletx/internal/adapter/http/middleware"
	redisStore "walletx/internal/adapter/storage/redis"
	"walletx/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	Applier        ports.BalanceApplier
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimitRule  middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Only writes are rate limited.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, deps.RateLimitRule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.LedgerSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.GET("/:id", walletHandler.Get)
		wallets.PATCH("/:id", rl("wallets"), walletHandler.Update)
		wallets.DELETE("/:id", rl("wallets"), walletHandler.Delete)
	}

	txHandler := NewTransactionHandler(deps.Applier, deps.LedgerSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.POST("", rl("transactions"), txHandler.Create)
		transactions.GET("", txHandler.List)
		transactions.GET("/:id", txHandler.Get)
		transactions.PUT("/:id", txHandler.Immutable)
		transactions.PATCH("/:id", txHandler.Immutable)
		transactions.DELETE("/:id", txHandler.Immutable)
		transactions.PUT("", txHandler.Immutable)
		transactions.PATCH("", txHandler.Immutable)
		transactions.DELETE("", txHandler.Immutable)
	}

	return r
}
