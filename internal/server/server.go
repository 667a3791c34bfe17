package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/database"
	"storefront-admin/internal/domain"
	custommiddleware "storefront-admin/internal/middleware"
	"storefront-admin/internal/repository"
	"storefront-admin/internal/service"
	"storefront-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Database is the connection pool the repositories share
type Database interface {
	repository.DBTX
	Ping(ctx context.Context) error
	Close()
}

// Dependencies are the external resources opened by the serve command
type Dependencies struct {
	DB       Database
	Redis    *redis.Client
	Verifier *custommiddleware.TokenVerifier
	// Uploads may be nil when no bucket is configured
	Uploads transport.Presigner
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	metrics := custommiddleware.NewMetrics()
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.Authenticate(deps.Verifier, logger))

	router.Get("/health", healthHandler(deps))
	router.Handle("/metrics", metrics.Handler())

	// Repositories
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	subCategoryRepo := repository.NewSubCategoryRepository(deps.DB)
	storeRepo := repository.NewStoreRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)

	// Services
	categoryService := service.NewCategoryService(categoryRepo, logger)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, logger)
	storeService := service.NewStoreService(storeRepo, logger)
	productService := service.NewProductService(productRepo, storeRepo, subCategoryRepo, logger)

	gates := transport.Gates{
		Authenticated: custommiddleware.RequireAuth(logger),
		Admin:         custommiddleware.RequireRole(logger, domain.RoleAdmin),
		Seller:        custommiddleware.RequireRole(logger, domain.RoleSeller),
	}
	if deps.Redis != nil {
		gates.Limit = custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "rate_limit:write",
		}, logger)
	}

	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router, gates)
	transport.NewSubCategoryHandler(subCategoryService, logger).RegisterRoutes(router, gates)
	transport.NewStoreHandler(storeService, logger).RegisterRoutes(router, gates)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, gates)
	if deps.Uploads != nil {
		transport.NewUploadHandler(deps.Uploads, logger).RegisterRoutes(router, gates)
	} else {
		logger.Warn("S3 bucket not configured, image uploads disabled")
	}

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := database.Health(r.Context(), deps.DB)
		status, code := "ok", http.StatusOK
		if db["status"] != "up" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		body := map[string]interface{}{"status": status, "database": db}
		if deps.Redis != nil {
			// the rate limiter fails open, so redis does not decide the status
			if err := deps.Redis.Ping(r.Context()).Err(); err != nil {
				body["redis"] = map[string]string{"status": "down", "error": err.Error()}
			} else {
				body["redis"] = map[string]string{"status": "up"}
			}
		}
		custommiddleware.RespondWithJSON(w, code, body)
	}
}

// Close releases the pool, the redis client and the JWKS refresher
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Verifier != nil {
		s.deps.Verifier.Close()
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	if s.deps.DB != nil {
		s.deps.DB.Close()
	}

	_ = s.logger.Sync()
	return nil
}
