package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/config"
	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/rendering"
	"github.com/jonathan/venture-profile/internal/server/middleware"
	"github.com/jonathan/venture-profile/internal/server/ratelimit"
	"github.com/jonathan/venture-profile/internal/types"
)

// Store is the subset of the database the handlers read and write.
type Store interface {
	GetCompanyProfile(ctx context.Context, companyID uuid.UUID) (*types.CompanyProfile, error)
	UpsertCompanyProfile(ctx context.Context, companyID uuid.UUID, profile *types.CompanyProfile) (uuid.UUID, error)
	DeleteCompany(ctx context.Context, companyID uuid.UUID) (bool, error)
	ListFundingRoundsByCompany(ctx context.Context, companyID uuid.UUID) ([]types.FundingRound, error)
	AddFundingRounds(ctx context.Context, companyID uuid.UUID, rounds []types.FundingRound) ([]uuid.UUID, error)
	RecordExport(ctx context.Context, input db.ExportInput) (*db.ExportRecord, error)
	ListExportsByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]db.ExportRecord, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	closeStore  func()
	exporter    *export.Exporter
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	logger      *log.Logger
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	MailEndpoint string
	MailFrom     string
	GeneratedBy  string
	Logger       *log.Logger
}

// New connects to the database, applies migrations and wires the API.
// Profiles are emailed through MailEndpoint when set and logged otherwise.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var mailer export.Mailer = &export.LogMailer{Logger: logger}
	if cfg.MailEndpoint != "" {
		mailer = export.NewHTTPMailer(cfg.MailEndpoint, cfg.MailFrom)
	}
	engine := rendering.NewEngine(rendering.WithAuthor(cfg.GeneratedBy))
	exporter := export.New(engine, mailer, logger)

	s := newServer(database, exporter, NewJWTService(jwtConfig), ratelimit.NewLimiter(ratelimit.LoadConfig()), logger)
	s.closeStore = database.Close

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer builds the router around already constructed dependencies.
func newServer(store Store, exporter *export.Exporter, jwtService *JWTService, limiter *ratelimit.Limiter, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		store:       store,
		exporter:    exporter,
		jwtService:  jwtService,
		rateLimiter: limiter,
		logger:      logger,
	}

	requireAuth := middleware.AuthMiddleware(jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Stored company profiles
	mux.HandleFunc("GET /companies/{company_id}/profile", s.handleGetProfile)
	mux.HandleFunc("GET /companies/{company_id}/profile.pdf", s.handleDownloadProfile)
	mux.Handle("POST /companies/{company_id}/profile/email", requireAuth(http.HandlerFunc(s.handleEmailProfile)))

	// Profile management
	mux.Handle("POST /companies", requireAuth(http.HandlerFunc(s.handleCreateCompany)))
	mux.Handle("PUT /companies/{company_id}/profile", requireAuth(http.HandlerFunc(s.handlePutProfile)))
	mux.Handle("DELETE /companies/{company_id}", requireAuth(http.HandlerFunc(s.handleDeleteCompany)))
	mux.Handle("POST /companies/{company_id}/funding-rounds", requireAuth(http.HandlerFunc(s.handleAddFundingRounds)))
	mux.Handle("GET /companies/{company_id}/exports", requireAuth(http.HandlerFunc(s.handleListExports)))

	// Inline rendering
	mux.HandleFunc("POST /profiles/render", s.handleRenderProfile)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	return s
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			s.shutdownDependencies()
			return fmt.Errorf("server error: %w", err)
		}
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.shutdownDependencies()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) shutdownDependencies() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeStore != nil {
		s.closeStore()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// handleHealth reports server health and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "ok"}
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("database ping failed", "err", err)
		resp["status"] = "degraded"
		resp["database"] = "unavailable"
		s.jsonResponse(w, http.StatusServiceUnavailable, resp)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "err", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Round(time.Second).Seconds())
		if retry < 1 {
			retry = 1
		}
		response["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}

	s.logger.Warn("rate limit exceeded",
		"client", s.extractClientID(r),
		"method", r.Method,
		"path", r.URL.Path,
		"limit", info.Limit,
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
