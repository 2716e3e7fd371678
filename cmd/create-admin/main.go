package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"tutorhub.backend/internal/config"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/infrastructure/datasources/postgres"
	"tutorhub.backend/internal/infrastructure/repositories"
	"tutorhub.backend/internal/usecases"
	"tutorhub.backend/pkg/crypto"
	"tutorhub.backend/pkg/redis"
)

var openCreateAdminDB = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	return postgres.NewGormDB(sqlDB)
}

var openCreateAdminSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

// adminAccounts is the part of the account directory the command drives
type adminAccounts interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.Account, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role entities.Role, force bool) (*entities.Account, error)
}

type createAdminDeps struct {
	loadEnv  func() error
	loadCfg  func() *config.Config
	prepare  func(cfg *config.Config) (adminAccounts, io.Closer, error)
	password func() string
	out      io.Writer
}

func defaultCreateAdminDeps() createAdminDeps {
	return createAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminAccounts, io.Closer, error) {
			db, err := openCreateAdminDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := openCreateAdminSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			if err := redis.Init(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
			}
			store, err := redis.NewSessionStore(cfg.Security.SessionEncryptionKey)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to init session store: %w", err)
			}
			hasher, err := crypto.NewPasswordHasher(cfg.Security.PasswordHashCost)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to init password hasher: %w", err)
			}

			accountRepo := repositories.NewAccountRepository(db)
			profileRepo := repositories.NewProfileRepository(db)
			sync := usecases.NewProfileSync(accountRepo, profileRepo,
				repositories.NewCourseRepository(db), repositories.NewEnrollmentRepository(db),
				repositories.NewTutoringSessionRepository(db), repositories.NewSessionBookingRepository(db),
				repositories.NewAttendanceRepository(db))
			accounts := usecases.NewAccountUsecase(repositories.NewUnitOfWork(db), accountRepo, sync, hasher,
				usecases.NewPasswordPolicy(), store, entities.AccountStatusActive)
			return accounts, sqlDB, nil
		},
		password: func() string { return os.Getenv("ADMIN_PASSWORD") },
		out:      os.Stdout,
	}
}

func runCreateAdmin(args []string, deps createAdminDeps) error {
	def := defaultCreateAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.password == nil {
		deps.password = def.password
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "admin email (required unless -promote is set)")
	usernameFlag := fs.String("username", "", "admin username (defaults to the email local part)")
	firstFlag := fs.String("first-name", "", "first name")
	lastFlag := fs.String("last-name", "", "last name")
	promoteFlag := fs.String("promote", "", "existing account UUID to switch to the admin role")
	forceFlag := fs.Bool("force", false, "with -promote, drop records that depend on the current role profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var promoteID uuid.UUID
	if *promoteFlag != "" {
		id, err := uuid.Parse(*promoteFlag)
		if err != nil {
			return fmt.Errorf("invalid -promote account id: %w", err)
		}
		promoteID = id
	} else {
		if strings.TrimSpace(*emailFlag) == "" {
			return errors.New("-email is required")
		}
		if deps.password() == "" {
			return errors.New("ADMIN_PASSWORD must be set")
		}
	}

	_ = deps.loadEnv()
	cfg := deps.loadCfg()

	accounts, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	if promoteID != uuid.Nil {
		account, err := accounts.UpdateRole(ctx, promoteID, entities.RoleAdmin, *forceFlag)
		if err != nil {
			return fmt.Errorf("failed to promote account %s: %w", promoteID, err)
		}
		_, _ = fmt.Fprintf(deps.out, "Account %s (%s) is now admin\n", account.ID, account.Email)
		return nil
	}

	username := strings.TrimSpace(*usernameFlag)
	if username == "" {
		username = strings.SplitN(strings.TrimSpace(*emailFlag), "@", 2)[0]
	}
	password := deps.password()
	account, err := accounts.Register(ctx, &entities.RegisterInput{
		Email:           *emailFlag,
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
		FirstName:       *firstFlag,
		LastName:        *lastFlag,
		Role:            entities.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created admin account")
	_, _ = fmt.Fprintf(deps.out, "account_id=%s\n", account.ID)
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", account.Email)
	_, _ = fmt.Fprintf(deps.out, "username=%s\n", account.Username)
	return nil
}

func main() {
	if err := runCreateAdmin(os.Args[1:], defaultCreateAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
