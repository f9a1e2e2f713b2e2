package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/dashboard"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/events"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/org"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/platform/config"
	cryptoutil "staffhub/internal/platform/crypto"
	"staffhub/internal/platform/db"
	"staffhub/internal/platform/metrics"
	attendancehandler "staffhub/internal/transport/http/handlers/attendance"
	audithandler "staffhub/internal/transport/http/handlers/audit"
	authhandler "staffhub/internal/transport/http/handlers/auth"
	dashboardhandler "staffhub/internal/transport/http/handlers/dashboard"
	employeeshandler "staffhub/internal/transport/http/handlers/employees"
	eventshandler "staffhub/internal/transport/http/handlers/events"
	leavehandler "staffhub/internal/transport/http/handlers/leave"
	orghandler "staffhub/internal/transport/http/handlers/org"
	payrollhandler "staffhub/internal/transport/http/handlers/payroll"
	reportshandler "staffhub/internal/transport/http/handlers/reports"
	"staffhub/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	router, err := NewRouter(cfg, pool)
	if err != nil {
		log.Fatalf("router setup failed: %v", err)
	}

	log.Printf("staffhub server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// NewRouter wires the full middleware chain and API surface onto a chi
// router. Run uses it; integration tests mount it on httptest servers.
func NewRouter(cfg config.Config, pool *pgxpool.Pool) (http.Handler, error) {
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	authStore := auth.NewStore(pool)
	auditSvc := audit.New(pool)
	orgSvc := org.NewService(org.NewStore(pool))
	employeeSvc := employee.NewService(employee.NewStore(pool, crypto), orgSvc)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), employeeSvc)
	leaveSvc := leave.NewService(leave.NewStore(pool), employeeSvc)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), employeeSvc)
	eventsSvc := events.New(pool)
	dashboardSvc := dashboard.New(pool)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, cfg.SessionCookieName, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequireRole(auth.RoleAdmin)).Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				log.Printf("metrics encode failed: %v", err)
			}
		})
	}

	authHandler := authhandler.NewHandler(authStore, auditSvc, crypto, cfg)

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthThrottle(cfg.RateLimitPerMinute, time.Minute))
			authHandler.RegisterRoutes(r)
		})
		authHandler.RegisterUserRoutes(r)

		orghandler.NewHandler(orgSvc, auditSvc).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeSvc, auditSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, employeeSvc, auditSvc).RegisterRoutes(r)
		eventshandler.NewHandler(eventsSvc, auditSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardSvc, auditSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(employeeSvc, attendanceSvc, payrollSvc, authStore).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router, nil
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

// spaHandler serves the built frontend: real files as-is, everything else
// falls back to index.html for client-side routing.
func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
