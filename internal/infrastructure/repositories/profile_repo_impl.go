package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
	"tutorhub.backend/internal/infrastructure/models"
)

// ProfileRepository implements role and generic profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateRoleProfile inserts a role profile. A second profile of the same variant
// for the account violates the primary key and yields ErrProfileAlreadyExists;
// a profile for a missing account yields ErrMissingReference.
func (r *ProfileRepository) CreateRoleProfile(ctx context.Context, profile entities.RoleProfile) error {
	m, err := toRoleProfileModel(profile)
	if err != nil {
		return err
	}
	return translateWriteError(GetDB(ctx, r.db).Create(m).Error, domainerrors.ErrProfileAlreadyExists, "account")
}

// GetRoleProfile loads the profile of the given variant
func (r *ProfileRepository) GetRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) (entities.RoleProfile, error) {
	m, err := emptyRoleProfileModel(role)
	if err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).Where("account_id = ?", accountID).First(m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toRoleProfileEntity(m), nil
}

// ListRoleProfiles returns the profiles of every variant attached to the account
func (r *ProfileRepository) ListRoleProfiles(ctx context.Context, accountID uuid.UUID) ([]entities.RoleProfile, error) {
	var profiles []entities.RoleProfile
	for _, role := range entities.Roles {
		m, _ := emptyRoleProfileModel(role)
		result := GetDB(ctx, r.db).Where("account_id = ?", accountID).Limit(1).Find(m)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		profiles = append(profiles, toRoleProfileEntity(m))
	}
	return profiles, nil
}

// UpdateRoleProfile saves every attribute of an existing role profile
func (r *ProfileRepository) UpdateRoleProfile(ctx context.Context, profile entities.RoleProfile) error {
	m, err := toRoleProfileModel(profile)
	if err != nil {
		return err
	}

	var updates map[string]interface{}
	switch v := m.(type) {
	case *models.StudentProfile:
		updates = map[string]interface{}{
			"grade_level":        v.GradeLevel,
			"school":             v.School,
			"learning_goals":     v.LearningGoals,
			"guardian_contact":   v.GuardianContact,
			"preferred_language": v.PreferredLanguage,
		}
	case *models.TutorProfile:
		updates = map[string]interface{}{
			"qualifications":   v.Qualifications,
			"subjects":         v.Subjects,
			"experience_years": v.ExperienceYears,
			"hourly_rate":      v.HourlyRate,
			"rating":           v.Rating,
			"is_approved":      v.IsApproved,
			"approved_at":      v.ApprovedAt,
		}
	case *models.AdminProfile:
		updates = map[string]interface{}{
			"admin_level": v.AdminLevel,
		}
	}
	updates["updated_at"] = time.Now()

	result := GetDB(ctx, r.db).Model(m).Where("account_id = ?", profile.OwnerID()).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteRoleProfile removes the profile of the given variant
func (r *ProfileRepository) DeleteRoleProfile(ctx context.Context, accountID uuid.UUID, role entities.Role) error {
	m, err := emptyRoleProfileModel(role)
	if err != nil {
		return err
	}
	result := GetDB(ctx, r.db).Where("account_id = ?", accountID).Delete(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CreateGeneric inserts the generic profile of an account
func (r *ProfileRepository) CreateGeneric(ctx context.Context, profile *entities.GenericProfile) error {
	m := &models.GenericProfile{
		AccountID:              profile.AccountID,
		Address:                profile.Address,
		City:                   profile.City,
		Country:                profile.Country,
		IdentityDocumentType:   profile.IdentityDocumentType,
		IdentityDocumentNumber: profile.IdentityDocumentNumber,
		WalletBalance:          profile.WalletBalance,
		KYCStatus:              string(profile.KYCStatus),
		IsVerified:             profile.IsVerified,
		VerifiedAt:             profile.VerifiedAt.Ptr(),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err, domainerrors.ErrProfileAlreadyExists, "account")
	}
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

// GetGeneric loads the generic profile of an account
func (r *ProfileRepository) GetGeneric(ctx context.Context, accountID uuid.UUID) (*entities.GenericProfile, error) {
	var m models.GenericProfile
	if err := GetDB(ctx, r.db).Where("account_id = ?", accountID).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.GenericProfile{
		AccountID:              m.AccountID,
		Address:                m.Address,
		City:                   m.City,
		Country:                m.Country,
		IdentityDocumentType:   m.IdentityDocumentType,
		IdentityDocumentNumber: m.IdentityDocumentNumber,
		WalletBalance:          m.WalletBalance,
		KYCStatus:              entities.KYCStatus(m.KYCStatus),
		IsVerified:             m.IsVerified,
		VerifiedAt:             null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}, nil
}

// UpdateGeneric saves the editable contact fields of a generic profile
func (r *ProfileRepository) UpdateGeneric(ctx context.Context, profile *entities.GenericProfile) error {
	updates := map[string]interface{}{
		"address":                  profile.Address,
		"city":                     profile.City,
		"country":                  profile.Country,
		"identity_document_type":   profile.IdentityDocumentType,
		"identity_document_number": profile.IdentityDocumentNumber,
		"updated_at":               time.Now(),
	}
	result := GetDB(ctx, r.db).Model(&models.GenericProfile{}).Where("account_id = ?", profile.AccountID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteGeneric removes the generic profile of an account, if any
func (r *ProfileRepository) DeleteGeneric(ctx context.Context, accountID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("account_id = ?", accountID).Delete(&models.GenericProfile{}).Error
}

func emptyRoleProfileModel(role entities.Role) (interface{}, error) {
	switch role {
	case entities.RoleStudent:
		return &models.StudentProfile{}, nil
	case entities.RoleTutor:
		return &models.TutorProfile{}, nil
	case entities.RoleAdmin:
		return &models.AdminProfile{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domainerrors.ErrInvalidRole, role)
}

func toRoleProfileModel(profile entities.RoleProfile) (interface{}, error) {
	switch p := profile.(type) {
	case *entities.StudentProfile:
		return &models.StudentProfile{
			AccountID:         p.AccountID,
			GradeLevel:        p.GradeLevel,
			School:            p.School,
			LearningGoals:     p.LearningGoals,
			GuardianContact:   p.GuardianContact,
			PreferredLanguage: p.PreferredLanguage,
		}, nil
	case *entities.TutorProfile:
		subjects := pq.StringArray(p.Subjects)
		if subjects == nil {
			subjects = pq.StringArray{}
		}
		return &models.TutorProfile{
			AccountID:       p.AccountID,
			Qualifications:  p.Qualifications,
			Subjects:        subjects,
			ExperienceYears: p.ExperienceYears,
			HourlyRate:      p.HourlyRate,
			Rating:          p.Rating,
			IsApproved:      p.IsApproved,
			ApprovedAt:      p.ApprovedAt.Ptr(),
		}, nil
	case *entities.AdminProfile:
		return &models.AdminProfile{
			AccountID:  p.AccountID,
			AdminLevel: string(p.AdminLevel),
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported profile type %T", domainerrors.ErrInvalidRole, profile)
}

func toRoleProfileEntity(m interface{}) entities.RoleProfile {
	switch v := m.(type) {
	case *models.StudentProfile:
		return &entities.StudentProfile{
			AccountID:         v.AccountID,
			GradeLevel:        v.GradeLevel,
			School:            v.School,
			LearningGoals:     v.LearningGoals,
			GuardianContact:   v.GuardianContact,
			PreferredLanguage: v.PreferredLanguage,
			CreatedAt:         v.CreatedAt,
			UpdatedAt:         v.UpdatedAt,
		}
	case *models.TutorProfile:
		subjects := []string(v.Subjects)
		if subjects == nil {
			subjects = []string{}
		}
		return &entities.TutorProfile{
			AccountID:       v.AccountID,
			Qualifications:  v.Qualifications,
			Subjects:        subjects,
			ExperienceYears: v.ExperienceYears,
			HourlyRate:      v.HourlyRate,
			Rating:          v.Rating,
			IsApproved:      v.IsApproved,
			ApprovedAt:      null.TimeFromPtr(v.ApprovedAt),
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		}
	case *models.AdminProfile:
		return &entities.AdminProfile{
			AccountID:  v.AccountID,
			AdminLevel: entities.AdminLevel(v.AdminLevel),
			CreatedAt:  v.CreatedAt,
			UpdatedAt:  v.UpdatedAt,
		}
	}
	return nil
}
