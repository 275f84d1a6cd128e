package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/bilimtest/bilimtest-server/internal/api/http"
	"github.com/bilimtest/bilimtest-server/internal/auth"
	"github.com/bilimtest/bilimtest-server/internal/config"
	"github.com/bilimtest/bilimtest-server/internal/db"
	"github.com/bilimtest/bilimtest-server/internal/docparse/convert"
	"github.com/bilimtest/bilimtest-server/internal/logger"
	"github.com/bilimtest/bilimtest-server/internal/rbac"
	"github.com/bilimtest/bilimtest-server/internal/testbank"
	"github.com/bilimtest/bilimtest-server/internal/variant"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	testStore := testbank.NewSQLStore(dbh)
	variantStore := variant.NewSQLStore(dbh)

	// --- Document converter ---
	conv, err := convert.New(cfg.ConverterPath, cfg.ConverterTimeout)
	if err != nil {
		log.Fatal("converter unavailable", zap.Error(err))
	}
	if ver, err := conv.Version(ctx); err == nil {
		// parse results are only reproducible against this exact version
		log.Info("document converter resolved", zap.String("path", conv.Path()), zap.String("version", ver))
	}

	engine := variant.NewEngine(variantStore,
		variant.WithCodeLength(cfg.VariantCodeLength),
		variant.WithMaxAttempts(cfg.VariantMaxAttempts),
		variant.WithLogger(log),
	)

	authSvc := auth.NewService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash, cfg.DevLogin)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("doc:parse")).
			Post("/parse", api.ParseDocumentHandler(conv))

		pr.With(rbac.Require("test:create")).
			Post("/tests", api.CreateTestHandler(testStore))
		pr.With(rbac.Require("test:create")).
			Put("/tests/{testID}", api.UpdateTestHandler(testStore, variantStore))
		pr.With(rbac.Require("test:view")).
			Get("/tests", api.ListTestsHandler(testStore))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(testStore))
		pr.With(rbac.Require("test:publish")).
			Post("/tests/{testID}/publish", api.PublishTestHandler(testStore))

		pr.With(rbac.Require("variant:generate")).
			Post("/tests/{testID}/variants", api.GenerateVariantsHandler(engine, testStore))
		pr.With(rbac.Require("variant:view")).
			Get("/tests/{testID}/variants", api.ListVariantsHandler(variantStore))
		pr.With(rbac.Require("variant:view")).
			Get("/variants/{code}", api.GetVariantHandler(variantStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
