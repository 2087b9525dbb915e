package handler

import (
	"strings"
	"time"

	"wallet-transaction-api/internal/adapter/http/middleware"
	"wallet-transaction-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// RateLimits configures the per-client read and write budgets.
type RateLimits struct {
	Read   int
	Write  int
	Window time.Duration
}

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	TokenSvc       ports.TokenService    // nil = write routes are public
	ResponseCache  ports.ResponseCache   // nil = list caching disabled
	ListCacheTTL   time.Duration
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	RateLimits     RateLimits
	Pagination     Pagination
	HealthCheckers []ports.HealthChecker
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// Every route answers with and without a trailing slash.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()
	r.RedirectTrailingSlash = false

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	noop := func(c *gin.Context) { c.Next() }

	rl := func(group string, limit int) gin.HandlerFunc {
		if deps.RateLimitStore == nil || limit <= 0 {
			return noop
		}
		rule := middleware.RateLimitRule{Limit: limit, Window: deps.RateLimits.Window}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}
	read := rl("read", deps.RateLimits.Read)
	write := rl("write", deps.RateLimits.Write)

	auth := noop
	if deps.TokenSvc != nil {
		auth = middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	}

	cached := func(scope string) gin.HandlerFunc {
		if deps.ResponseCache == nil {
			return noop
		}
		return middleware.ResponseCache(deps.ResponseCache, scope, deps.ListCacheTTL, deps.Logger)
	}

	api := r.Group("/api", middleware.MediaType())
	if deps.ResponseCache != nil {
		api.Use(middleware.InvalidateOnWrite(deps.ResponseCache, deps.Logger, middleware.ScopeWallets, middleware.ScopeTransactions))
	}

	wallets := NewWalletHandler(deps.WalletSvc, deps.Pagination)
	handle(api, "GET", "/wallets", read, cached(middleware.ScopeWallets), wallets.List)
	handle(api, "POST", "/wallets", auth, write, wallets.Create)
	handle(api, "GET", "/wallets/:id", read, wallets.Get)
	handle(api, "GET", "/wallets/:id/balance", read, wallets.Balance)
	handle(api, "PATCH", "/wallets/:id", auth, write, wallets.Update)
	handle(api, "DELETE", "/wallets/:id", auth, write, wallets.Delete)

	transactions := NewTransactionHandler(deps.LedgerSvc, deps.Pagination)
	handle(api, "GET", "/transactions", read, cached(middleware.ScopeTransactions), transactions.List)
	handle(api, "POST", "/transactions", auth, write, transactions.Create)
	handle(api, "GET", "/transactions/:id", read, transactions.Get)
	handle(api, "DELETE", "/transactions/:id", auth, write, transactions.Delete)

	return r
}

func handle(g *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	g.Handle(method, path, handlers...)
	g.Handle(method, path+"/", handlers...)
}
