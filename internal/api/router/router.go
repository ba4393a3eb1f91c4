package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"minierp/internal/api/customer"
	"minierp/internal/api/order"
	"minierp/internal/api/product"
	"minierp/internal/api/stock"
	"minierp/internal/api/user"
	"minierp/internal/domain"
	"minierp/internal/pkg/cache"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/middleware"
	"minierp/internal/pkg/respond"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Products  *product.Handler
	Stock     *stock.Handler
	Customers *customer.Handler
	Orders    *order.Handler
	Users     *user.Handler
}

// Options controla os middlewares opcionais.
type Options struct {
	// AuthRequired exige Bearer token em rotas de escrita.
	AuthRequired bool
	Tokens       middleware.TokenService

	// RateLimitCache nil desativa o rate limiter.
	RateLimitCache       cache.Client
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	CacheTimeout         time.Duration

	CORSAllowedOrigins []string
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-RateLimit-Remaining"},
		MaxAge:         300,
	}))
	if opts.RateLimitCache != nil && opts.RateLimitMaxRequests > 0 {
		r.Use(middleware.RateLimiter(opts.RateLimitCache, opts.RateLimitMaxRequests, opts.RateLimitPeriod, opts.CacheTimeout, log))
	}

	// --- 2. Health check e documentação ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, log, http.StatusOK, map[string]string{"status": "Mini ERP backend running"})
	})
	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 3. Usuários ---
	r.Post("/register", h.Users.RegisterUserHandler)
	r.Post("/login", h.Users.LoginUserHandler)

	// --- 4. Recursos do ERP ---
	writes := func(r chi.Router) {
		if opts.AuthRequired {
			r.Use(mutationsOnly(middleware.NewAuthMiddleware(opts.Tokens, log)))
		}
	}

	r.Route("/customers", func(r chi.Router) {
		writes(r)
		h.Customers.Routes(r)
	})
	r.Route("/products", func(r chi.Router) {
		writes(r)
		h.Products.Routes(r)
		r.Group(func(r chi.Router) {
			if opts.AuthRequired {
				r.Use(middleware.PermissionMiddleware(log, domain.RoleAdmin))
			}
			h.Stock.Routes(r)
		})
	})
	r.Route("/orders", func(r chi.Router) {
		writes(r)
		h.Orders.Routes(r)
		r.Group(func(r chi.Router) {
			if opts.AuthRequired {
				r.Use(middleware.PermissionMiddleware(log, domain.RoleAdmin, domain.RoleUser))
			}
			h.Orders.TransitionRoutes(r)
		})
	})

	return r
}

// mutationsOnly aplica mw apenas a métodos que alteram estado.
func mutationsOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
