package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/pkg/utils"
)

// AccountRepository defines account directory data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)
	// IdentityTaken reports which of email and username are already registered
	IdentityTaken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	UpdateRole(ctx context.Context, id uuid.UUID, role entities.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.AccountStatus) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) ([]entities.RoleCount, error)
	// ListRoleIntegrityViolations pages through accounts lacking a role profile for their role
	// or holding a role profile of another variant
	ListRoleIntegrityViolations(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
}
