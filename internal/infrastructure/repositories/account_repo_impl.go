package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/infrastructure/models"
	"tutorhub.backend/pkg/utils"
)

// AccountRepository implements account directory data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account. Unique violations surface as ErrDuplicateIdentity.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	m := &models.Account{
		ID:           account.ID,
		Email:        account.Email,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Phone:        account.Phone.Ptr(),
		Gender:       string(account.Gender),
		Role:         string(account.Role),
		Status:       string(account.Status),
		LastLoginAt:  account.LastLoginAt.Ptr(),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateIdentity(constraint)
		}
		return err
	}
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

func duplicateIdentity(constraint string) error {
	switch {
	case strings.Contains(constraint, "username"):
		return fmt.Errorf("%w: username", domainerrors.ErrDuplicateIdentity)
	case strings.Contains(constraint, "email"):
		return fmt.Errorf("%w: email", domainerrors.ErrDuplicateIdentity)
	default:
		return domainerrors.ErrDuplicateIdentity
	}
}

// GetByID gets an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toAccountEntity(&m), nil
}

// GetByEmail gets an account by its normalized email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toAccountEntity(&m), nil
}

// IdentityTaken reports which identifiers are already in use
func (r *AccountRepository) IdentityTaken(ctx context.Context, email, username string) (bool, bool, error) {
	var rows []models.Account
	err := GetDB(ctx, r.db).
		Select("email", "username").
		Where("email = ? OR username = ?", email, username).
		Find(&rows).Error
	if err != nil {
		return false, false, err
	}

	var emailTaken, usernameTaken bool
	for _, row := range rows {
		if row.Email == email {
			emailTaken = true
		}
		if row.Username == username {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, nil
}

// UpdateRole sets the declared role of an account
func (r *AccountRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.Role) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"role": string(role)})
}

// UpdateStatus sets the lifecycle status of an account
func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.AccountStatus) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"status": string(status)})
}

// UpdatePasswordHash replaces the stored password hash
func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash})
}

// TouchLastLogin records a successful login
func (r *AccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"last_login_at": at})
}

func (r *AccountRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := GetDB(ctx, r.db).Model(&models.Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete permanently removes an account row
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountByRole returns the number of accounts per role, including roles with none
func (r *AccountRepository) CountByRole(ctx context.Context) ([]entities.RoleCount, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := GetDB(ctx, r.db).
		Model(&models.Account{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]int64, len(rows))
	for _, row := range rows {
		byRole[row.Role] = row.Count
	}

	counts := make([]entities.RoleCount, 0, len(entities.Roles))
	for _, role := range entities.Roles {
		counts = append(counts, entities.RoleCount{Role: role, Count: byRole[string(role)]})
	}
	return counts, nil
}

var roleProfileTables = map[entities.Role]string{
	entities.RoleStudent: "student_profiles",
	entities.RoleTutor:   "tutor_profiles",
	entities.RoleAdmin:   "admin_profiles",
}

// ListRoleIntegrityViolations finds accounts whose role profiles disagree with Account.Role
func (r *AccountRepository) ListRoleIntegrityViolations(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	var (
		clauses []string
		args    []interface{}
	)
	for _, role := range entities.Roles {
		table := roleProfileTables[role]
		clauses = append(clauses,
			fmt.Sprintf("(accounts.role = ? AND NOT EXISTS (SELECT 1 FROM %s p WHERE p.account_id = accounts.id))", table),
			fmt.Sprintf("(accounts.role <> ? AND EXISTS (SELECT 1 FROM %s p WHERE p.account_id = accounts.id))", table),
		)
		args = append(args, string(role), string(role))
	}

	query := GetDB(ctx, r.db).
		Model(&models.Account{}).
		Where(strings.Join(clauses, " OR "), args...)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var ms []models.Account
	if err := query.Order("created_at").Order("id").Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Account, len(ms))
	for i := range ms {
		items[i] = toAccountEntity(&ms[i])
	}
	return items, totalCount, nil
}

func toAccountEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        null.StringFromPtr(m.Phone),
		Gender:       entities.Gender(m.Gender),
		Role:         entities.Role(m.Role),
		Status:       entities.AccountStatus(m.Status),
		LastLoginAt:  null.TimeFromPtr(m.LastLoginAt),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
