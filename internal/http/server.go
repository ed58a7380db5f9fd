// Package http exposes the budgeting engine as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"envelope/internal/cache"
	"envelope/internal/core"
	"envelope/internal/middleware/ratelimit"
	"envelope/internal/middleware/security"
	"envelope/internal/middleware/trace"
	"envelope/internal/services"
	"envelope/internal/storage"
)

// Options tunes server-side caching and rate limiting.
type Options struct {
	RateLimitPerMinute int
	CacheSize          int
	CacheTTL           time.Duration
}

// DefaultOptions returns the values used when an option is left zero.
func DefaultOptions() Options {
	return Options{
		RateLimitPerMinute: 120,
		CacheSize:          128,
		CacheTTL:           30 * time.Second,
	}
}

type Server struct {
	http.Server

	store        storage.Store
	budget       *services.BudgetService
	reconcile    *services.ReconcileService
	transactions *services.TransactionService

	limiter *ratelimit.Limiter

	// LRU cache for budget overviews, cleared wholesale on any mutation
	// because rollover lets one period's change shift later periods.
	overviewCache *cache.LRUCache[core.BudgetOverview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store storage.Store, budget *services.BudgetService, reconcile *services.ReconcileService, transactions *services.TransactionService, opts Options) *Server {
	defaults := DefaultOptions()
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaults.CacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaults.CacheTTL
	}

	mux := http.NewServeMux()

	s := &Server{
		store:         store,
		budget:        budget,
		reconcile:     reconcile,
		transactions:  transactions,
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		overviewCache: cache.NewLRUCache[core.BudgetOverview](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/v1/budget/overview", s.handleOverview)
	mux.HandleFunc("/api/v1/budget/summary", s.handleCategorySummary)
	mux.HandleFunc("/api/v1/budget/available", s.handleAvailableToBudget)
	mux.HandleFunc("/api/v1/budget/assign", s.handleAssign)
	mux.HandleFunc("/api/v1/budget/move", s.handleMove)
	mux.HandleFunc("/api/v1/budget/target", s.handleTarget)
	mux.HandleFunc("/api/v1/budget/suggested", s.handleSuggested)
	mux.HandleFunc("/api/v1/budget/income", s.handleIncome)

	mux.HandleFunc("/api/v1/accounts", s.handleAccounts)
	mux.HandleFunc("/api/v1/categories", s.handleCategories)
	mux.HandleFunc("/api/v1/category-groups", s.handleCategoryGroups)

	mux.HandleFunc("/api/v1/transactions", s.handleTransactions)
	mux.HandleFunc("/api/v1/transactions/amount", s.handleTransactionAmount)
	mux.HandleFunc("/api/v1/transactions/category", s.handleTransactionCategory)
	mux.HandleFunc("/api/v1/transactions/status", s.handleTransactionStatus)
	mux.HandleFunc("/api/v1/transactions/delete", s.handleTransactionDelete)
	mux.HandleFunc("/api/v1/transactions/unlock", s.handleTransactionUnlock)

	mux.HandleFunc("/api/v1/reconcile/start", s.handleReconcileStart)
	mux.HandleFunc("/api/v1/reconcile/toggle", s.handleReconcileToggle)
	mux.HandleFunc("/api/v1/reconcile/summary", s.handleReconcileSummary)
	mux.HandleFunc("/api/v1/reconcile/complete", s.handleReconcileComplete)
	mux.HandleFunc("/api/v1/reconcile/cancel", s.handleReconcileCancel)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(security.ExtractClientIP)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      tracer.Middleware(headers.Middleware(s.limitMutations(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// limitMutations applies the rate limiter to everything except reads.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			clientIP := security.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := s.store.ListAccounts(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// getOverview serves a budget overview, consulting the cache first.
func (s *Server) getOverview(ctx context.Context, period core.BudgetPeriod) (core.BudgetOverview, error) {
	key := period.Key()

	if data, found := s.overviewCache.Get(key); found {
		slog.DebugContext(ctx, "Overview cache hit", "period", key)
		return data, nil
	}

	data, err := s.budget.GetBudgetOverview(ctx, period)
	if err != nil {
		return core.BudgetOverview{}, err
	}

	s.overviewCache.Set(key, data)
	slog.DebugContext(ctx, "Overview cached", "period", key, "categories", len(data.Categories))
	return data, nil
}

// invalidateOverviews drops every cached overview. Assignments, moves,
// transaction edits and reconciliation can all shift rollover balances in
// periods other than the one touched.
func (s *Server) invalidateOverviews() {
	s.overviewCache.Clear()
}
