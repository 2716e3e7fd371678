package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorhub.backend/internal/domain/entities"
)

// ProfileRepository defines role and generic profile data operations
type ProfileRepository interface {
	CreateRoleProfile(ctx context.Context, profile entities.RoleProfile) error
	GetRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) (entities.RoleProfile, error)
	// ListRoleProfiles returns every role profile attached to the account, of any variant
	ListRoleProfiles(ctx context.Context, accountID uuid.UUID) ([]entities.RoleProfile, error)
	UpdateRoleProfile(ctx context.Context, profile entities.RoleProfile) error
	DeleteRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) error

	CreateGeneric(ctx context.Context, profile *entities.GenericProfile) error
	GetGeneric(ctx context.Context, accountID uuid.UUID) (*entities.GenericProfile, error)
	UpdateGeneric(ctx context.Context, profile *entities.GenericProfile) error
	DeleteGeneric(ctx context.Context, accountID uuid.UUID) error
}
