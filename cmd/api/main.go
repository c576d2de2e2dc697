package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lisquant/valuation/internal/application"
	appai "github.com/lisquant/valuation/internal/application/ai"
	appanalyses "github.com/lisquant/valuation/internal/application/analyses"
	appauth "github.com/lisquant/valuation/internal/application/auth"
	"github.com/lisquant/valuation/internal/config"
	domanalyses "github.com/lisquant/valuation/internal/domain/analyses"
	"github.com/lisquant/valuation/internal/domain/commentary"
	"github.com/lisquant/valuation/internal/domain/users"
	aiclient "github.com/lisquant/valuation/internal/infra/ai/openai"
	mysqldb "github.com/lisquant/valuation/internal/infra/db/mysql"
	postgresdb "github.com/lisquant/valuation/internal/infra/db/postgres"
	"github.com/lisquant/valuation/internal/infra/httpserver"
	minioStore "github.com/lisquant/valuation/internal/infra/storage"
	"github.com/lisquant/valuation/internal/infra/terminal"
	"github.com/lisquant/valuation/internal/infra/workbook"
	"github.com/lisquant/valuation/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	log.Printf("starting with %s", cfg)

	ctx := context.Background()

	var (
		db             *sql.DB
		userRepo       users.Repository
		analysisRepo   domanalyses.Repository
		commentaryRepo commentary.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqldb.Connect(ctx, cfg.DSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		if err := mysqldb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql schema error: %v", err)
		}
		userRepo = mysqldb.NewUserRepository(db)
		analysisRepo = mysqldb.NewAnalysisRepository(db)
		commentaryRepo = mysqldb.NewCommentaryRepository(db)
	default:
		db, err = postgresdb.Connect(ctx, cfg.DSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		if err := postgresdb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("postgres schema error: %v", err)
		}
		userRepo = postgresdb.NewUserRepository(db)
		analysisRepo = postgresdb.NewAnalysisRepository(db)
		commentaryRepo = postgresdb.NewCommentaryRepository(db)
	}
	defer db.Close()

	store, err := minioStore.New(ctx,
		cfg.Storage.Endpoint,
		cfg.Storage.Region,
		cfg.Storage.BucketName,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	fetcher := terminal.New(
		cfg.Terminal.Host,
		cfg.Terminal.Port,
		cfg.TerminalTimeout(),
		cfg.Terminal.StartYear,
		cfg.Terminal.EndYear,
	)

	clock := application.SystemClock{}

	authSvc := &appauth.Service{
		Repo:   userRepo,
		Secret: []byte(cfg.Auth.SessionSecret),
		TTL:    cfg.SessionTTL(),
		Clock:  clock,
	}

	analysesSvc := &appanalyses.Service{
		Repo:      analysisRepo,
		Fetcher:   fetcher,
		Workbook:  &workbook.Writer{StartYear: cfg.Terminal.StartYear, EndYear: cfg.Terminal.EndYear},
		Artifacts: store,
		Clock:     clock,

		TemplatePath: cfg.Analysis.TemplatePath,
		WorkDir:      cfg.Analysis.WorkDir,
	}

	aiSvc := &appai.Service{
		Client:   aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model),
		Repo:     commentaryRepo,
		Analyses: analysisRepo,
		Clock:    clock,
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Auth:     authSvc,
		Analyses: analysesSvc,
		AI:       aiSvc,
		Metrics:  middleware.NewMetrics(),
		HealthCheckers: []middleware.HealthChecker{
			middleware.NewDatabaseHealthChecker(db),
			middleware.NewTemplateHealthChecker(cfg.Analysis.TemplatePath),
		},
		CookieTTL:    cfg.SessionTTL(),
		CookieSecure: cfg.Auth.SecureCookies,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // terminal fetches are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
