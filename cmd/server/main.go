package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tutorhub.backend/internal/config"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/infrastructure/jobs"
	"tutorhub.backend/internal/infrastructure/repositories"
	"tutorhub.backend/internal/interfaces/http/handlers"
	"tutorhub.backend/internal/interfaces/http/middleware"
	"tutorhub.backend/internal/interfaces/http/validation"
	"tutorhub.backend/internal/usecases"
	"tutorhub.backend/pkg/crypto"
	"tutorhub.backend/pkg/jwt"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/redis"
)

const (
	serviceName    = "tutorhub-backend"
	serviceVersion = "0.1.0"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	migrateDB       = repositories.AutoMigrate
	newSessionStore = redis.NewSessionStore
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownSignal  = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	hasher, err := crypto.NewPasswordHasher(cfg.Security.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	if err := validation.RegisterGin(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		return fmt.Errorf("failed to initialize authorization: %w", err)
	}

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	accountRepo := repositories.NewAccountRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	sessionRepo := repositories.NewTutoringSessionRepository(db)
	bookingRepo := repositories.NewSessionBookingRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)

	// Usecases
	profileSync := usecases.NewProfileSync(accountRepo, profileRepo, courseRepo, enrollmentRepo, sessionRepo, bookingRepo, attendanceRepo)
	accountUsecase := usecases.NewAccountUsecase(uow, accountRepo, profileSync, hasher, usecases.NewPasswordPolicy(),
		sessionStore, entities.AccountStatus(cfg.Accounts.DefaultStatus))
	profileUsecase := usecases.NewProfileUsecase(uow, accountRepo, profileRepo, profileSync, sessionStore)
	sessionUsecase := usecases.NewSessionUsecase(accountUsecase, accountRepo, profileRepo, sessionStore, jwtService, cfg.Security.SessionTTL)
	courseUsecase := usecases.NewCourseUsecase(uow, accountRepo, courseRepo, enrollmentRepo, profileRepo)
	tutoringUsecase := usecases.NewTutoringUsecase(uow, accountRepo, profileRepo, courseRepo, enrollmentRepo,
		sessionRepo, bookingRepo, attendanceRepo)
	dashboardUsecase := usecases.NewDashboardUsecase(accountRepo, profileRepo, courseUsecase)

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if cfg.Accounts.IntegrityAuditInterval > 0 {
		go jobs.NewRoleIntegrityAuditJob(accountRepo, cfg.Accounts.IntegrityAuditInterval).Start(jobCtx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoutes(r, handlers.NewHealthHandler(serviceName, serviceVersion, map[string]handlers.Pinger{
		"database": sqlDB.PingContext,
		"redis":    redis.Ping,
	}))
	registerMetricsRoute(r)
	registerRoutes(r, routeDeps{
		authHandler:      handlers.NewAuthHandler(accountUsecase, sessionUsecase, cfg.Server.Env == "production"),
		profileHandler:   handlers.NewProfileHandler(profileUsecase),
		courseHandler:    handlers.NewCourseHandler(courseUsecase),
		tutoringHandler:  handlers.NewTutoringHandler(tutoringUsecase),
		dashboardHandler: handlers.NewDashboardHandler(dashboardUsecase),
		adminHandler:     handlers.NewAdminHandler(accountUsecase, profileUsecase),
		resolver:         sessionUsecase,
		enforcer:         enforcer,
		loginURL:         cfg.Server.LoginURL,
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server starting", zap.String("port", cfg.Server.Port))
		errCh <- runServer(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-shutdownSignal():
		logger.Info(ctx, "Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
