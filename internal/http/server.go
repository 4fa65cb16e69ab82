package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/middleware/security"
	"budgetbook/internal/middleware/trace"
)

// Ledger is the set of ledger operations the API exposes.
type Ledger interface {
	AddExpense(ctx context.Context, title string, amount core.Money, category string, date time.Time) (int64, error)
	GetExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	GetMonthlyBudget(ctx context.Context) (core.Money, error)
	SetMonthlyBudget(ctx context.Context, value core.Money) error
	Ping(ctx context.Context) error
}

// Options configures the API server. Zero values take defaults.
type Options struct {
	Logger             *log.Logger
	Catalog            *core.CategoryCatalog
	Location           *time.Location
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	// Now is the clock used for date defaults.
	Now func() time.Time
}

type Server struct {
	http.Server
	ledger   Ledger
	catalog  *core.CategoryCatalog
	loc      *time.Location
	now      func() time.Time
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector
}

// NewServer builds the API server listening on addr.
func NewServer(addr string, l Ledger, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Catalog == nil {
		opts.Catalog = core.DefaultCatalog()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		ledger:   l,
		catalog:  opts.Catalog,
		loc:      opts.Location,
		now:      opts.Now,
		logger:   logger,
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: opts.RateLimitRPS,
			Burst:             opts.RateLimitBurst,
		}),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError("method not allowed").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			TooManyRequestsError().Write(w)
		}))

		api.Get("/categories", s.handleCategories)

		api.Get("/expenses", s.handleListExpenses)
		api.Post("/expenses", s.handleCreateExpense)
		api.Get("/expenses/{id}", s.handleGetExpense)
		api.Delete("/expenses/{id}", s.handleDeleteExpense)

		api.Get("/budget", s.handleGetBudget)
		api.Put("/budget", s.handleSetBudget)

		api.Get("/dashboard", s.handleDashboard)
		api.Get("/summary", s.handleSummary)
	})

	return r
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}
