package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/config"
	"imagegen-solana-billing/internal/infra/logging"
	red "imagegen-solana-billing/internal/infra/redis"
	"imagegen-solana-billing/internal/usecase"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// Server exposes the Solana payment pipeline over HTTP.
type Server struct {
	payUC    usecase.PaymentUseCase
	creditUC usecase.CreditingUseCase
	auth     *AuthManager
	limiter  *red.RateLimiter
	treasury string
	cfg      config.APIConfig
	log      *zerolog.Logger
}

func NewServer(
	payUC usecase.PaymentUseCase,
	creditUC usecase.CreditingUseCase,
	auth *AuthManager,
	limiter *red.RateLimiter,
	treasury string,
	cfg config.APIConfig,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		payUC:    payUC,
		creditUC: creditUC,
		auth:     auth,
		limiter:  limiter,
		treasury: treasury,
		cfg:      cfg,
		log:      &l,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/payments/solana/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Post("/payments/solana/initiate", s.handleInitiate)
			r.Post("/payments/solana/verify", s.handleVerify)
			r.Get("/payments/solana/transactions", s.handleTransactions)
			r.Get("/credits/balance", s.handleBalance)
		})
	})

	return r
}

// requireUser resolves the session and stashes the user ID in the context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.UserFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		ctx = logging.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	if v := r.Context().Value(ctxUserID); v != nil {
		return v.(string)
	}
	return ""
}
