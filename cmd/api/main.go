// Package main - entry point of the student registration API.
//
// Architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use-case orchestration (Commands/Queries)
// - Infrastructure: repository implementations, caching, sessions
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pediforte/registry/config"
	"github.com/pediforte/registry/internal/application/command"
	"github.com/pediforte/registry/internal/application/query"
	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/rules"
	"github.com/pediforte/registry/internal/infrastructure/persistence/memory"
	"github.com/pediforte/registry/internal/infrastructure/persistence/postgres"
	"github.com/pediforte/registry/internal/infrastructure/persistence/redis"
	httpserver "github.com/pediforte/registry/internal/interface/http"
	"github.com/pediforte/registry/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.App.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting registration service",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := connectPostgres(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("database migrations applied")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache      *redis.Cache
		rulesCache rules.ActiveDocumentCache
		sessions   admin.SessionStore
		checkers   []httpserver.HealthChecker
	)
	checkers = append(checkers, conn)

	if cfg.Redis.Disabled {
		log.Warn("redis disabled, using in-memory sessions")
		sessions = memory.NewSessionStore()
	} else {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer cache.Close()

		rulesCache = redis.NewRulesCache(cache)
		sessions = redis.NewSessionStore(cache)
		checkers = append(checkers, cache)
		log.Info("redis connected", logger.String("addr", redisCfg.Addr()))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES AND HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	students := postgres.NewStudentRepository(conn)
	admins := postgres.NewAdminRepository(conn)
	docs := postgres.NewRulesRepository(conn)
	agreements := postgres.NewAgreementRepository(conn)

	publishRules := command.NewPublishRulesHandler(docs, admins, rulesCache)

	deps := httpserver.Dependencies{
		RegisterStudent: command.NewRegisterStudentHandler(students),
		RecordAgreement: command.NewRecordAgreementHandler(students, docs, agreements),
		PublishRules:    publishRules,
		UpdateRules:     command.NewUpdateRulesHandler(docs, publishRules, rulesCache),
		RegisterAdmin:   command.NewRegisterAdminHandler(admins),
		Login:           command.NewLoginHandler(admins, sessions, cfg.Session.TTL),
		Logout:          command.NewLogoutHandler(sessions),

		GetActiveRules:      query.NewGetActiveRulesHandler(docs, rulesCache),
		ListRuleVersions:    query.NewListRuleVersionsHandler(docs),
		GetStudent:          query.NewGetStudentHandler(students),
		GetAgreementHistory: query.NewGetAgreementHistoryHandler(students, agreements),
		RulesAnalytics:      query.NewRulesAnalyticsHandler(students, docs, agreements),

		Sessions: sessions,
		Logger:   log,
		Checkers: checkers,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. FIRST-RUN SEEDING
	// ─────────────────────────────────────────────────────────────────────────
	if err := seed(ctx, cfg, log, admins, docs, publishRules); err != nil {
		return fmt.Errorf("failed to seed initial data: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.SessionHeader = cfg.Session.Header
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// connectPostgres builds a connection from DATABASE_URL or the
// individual DB_* settings.
func connectPostgres(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	if cfg.Database.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Database.Host
	pgCfg.Port = cfg.Database.Port
	pgCfg.Database = cfg.Database.Name
	pgCfg.User = cfg.Database.User
	pgCfg.Password = cfg.Database.Password
	pgCfg.SSLMode = cfg.Database.SSLMode
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	return postgres.NewConnection(ctx, pgCfg)
}

// seed creates the default admin when no admin exists, and publishes the
// default rules document when none has ever been published.
func seed(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	admins admin.Repository,
	docs rules.DocumentRepository,
	publish *command.PublishRulesHandler,
) error {
	count, err := admins.Count(ctx)
	if err != nil {
		return err
	}

	var seededAdmin *admin.Admin
	if count == 0 {
		password := cfg.Seed.AdminPassword
		if password == "" {
			// Development convenience only; production requires
			// SEED_ADMIN_PASSWORD.
			password = uuid.NewString()
			log.Warn("generated one-time admin password",
				logger.String("username", cfg.Seed.AdminUsername),
				logger.String("password", password),
			)
		}

		seededAdmin, err = admin.NewAdmin(uuid.NewString(), cfg.Seed.AdminUsername, cfg.Seed.AdminEmail, password)
		if err != nil {
			return err
		}
		if err := admins.Create(ctx, seededAdmin); err != nil {
			return err
		}
		log.Info("default admin created", logger.AdminID(seededAdmin.ID))
	}

	if !cfg.Seed.SeedRules {
		return nil
	}

	_, err = docs.GetActive(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, rules.ErrNoActiveDocument) {
		return err
	}

	if seededAdmin == nil {
		seededAdmin, err = admins.GetByUsername(ctx, cfg.Seed.AdminUsername)
		if err != nil {
			// No admin to attribute the seed document to; skip seeding
			// rather than fail startup.
			log.Warn("skipping rules seeding, seed admin not found", logger.Err(err))
			return nil
		}
	}

	doc, err := publish.Handle(ctx, command.PublishRulesCommand{
		Content: cfg.Seed.RulesContent,
		Version: cfg.Seed.RulesVersion,
		AdminID: seededAdmin.ID,
	})
	if err != nil {
		return err
	}

	log.Info("default rules published", logger.RulesVersion(doc.Version))
	return nil
}
