package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"tutorhub.backend/internal/domain/entities"
	domainerrors "tutorhub.backend/internal/domain/errors"
)

func TestProfileRepository_RoleProfileLifecycle(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	id := seedAccount(t, db, entities.RoleStudent)

	student, _ := entities.NewRoleProfile(id, entities.RoleStudent)
	student.(*entities.StudentProfile).GradeLevel = "10"
	require.NoError(t, repo.CreateRoleProfile(ctx, student))

	err := repo.CreateRoleProfile(ctx, &entities.StudentProfile{AccountID: id})
	assert.ErrorIs(t, err, domainerrors.ErrProfileAlreadyExists)

	got, err := repo.GetRoleProfile(ctx, id, entities.RoleStudent)
	require.NoError(t, err)
	sp := got.(*entities.StudentProfile)
	assert.Equal(t, "10", sp.GradeLevel)
	assert.Equal(t, entities.DefaultPreferredLanguage, sp.PreferredLanguage)

	_, err = repo.GetRoleProfile(ctx, id, entities.RoleTutor)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	sp.School = "Alliance High"
	require.NoError(t, repo.UpdateRoleProfile(ctx, sp))
	got, err = repo.GetRoleProfile(ctx, id, entities.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Alliance High", got.(*entities.StudentProfile).School)

	require.NoError(t, repo.DeleteRoleProfile(ctx, id, entities.RoleStudent))
	assert.ErrorIs(t, repo.DeleteRoleProfile(ctx, id, entities.RoleStudent), domainerrors.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateRoleProfile(ctx, sp), domainerrors.ErrNotFound)
}

func TestProfileRepository_TutorSubjectsRoundTrip(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	id := seedAccount(t, db, entities.RoleTutor)

	require.NoError(t, repo.CreateRoleProfile(ctx, &entities.TutorProfile{
		AccountID:       id,
		Subjects:        []string{"math", "physics"},
		ExperienceYears: 3,
		HourlyRate:      "20.00",
	}))

	got, err := repo.GetRoleProfile(ctx, id, entities.RoleTutor)
	require.NoError(t, err)
	tp := got.(*entities.TutorProfile)
	assert.Equal(t, []string{"math", "physics"}, tp.Subjects)
	assert.Equal(t, 3, tp.ExperienceYears)
	assert.False(t, tp.IsApproved)
	assert.False(t, tp.ApprovedAt.Valid)
}

func TestProfileRepository_ListRoleProfiles(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	id := seedAccount(t, db, entities.RoleStudent)

	profiles, err := repo.ListRoleProfiles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	require.NoError(t, repo.CreateRoleProfile(ctx, &entities.AdminProfile{AccountID: id, AdminLevel: entities.AdminLevelSuper}))
	require.NoError(t, repo.CreateRoleProfile(ctx, &entities.StudentProfile{AccountID: id}))

	profiles, err = repo.ListRoleProfiles(ctx, id)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, entities.RoleStudent, profiles[0].ProfileRole())
	assert.Equal(t, entities.RoleAdmin, profiles[1].ProfileRole())
}

// traceErrors records the errors gorm hands to its logger
type traceErrors struct {
	gormlogger.Interface
	errs []error
}

func (l *traceErrors) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l *traceErrors) Trace(_ context.Context, _ time.Time, _ func() (string, int64), err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

func TestProfileRepository_ListRoleProfiles_MissingVariantsAreNotErrors(t *testing.T) {
	db := newSchemaTestDB(t)
	ctx := context.Background()
	id := seedRoleAccount(t, db, entities.RoleTutor)

	traced := &traceErrors{Interface: gormlogger.Discard}
	repo := NewProfileRepository(db.Session(&gorm.Session{Logger: traced}))

	profiles, err := repo.ListRoleProfiles(ctx, id)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, entities.RoleTutor, profiles[0].ProfileRole())
	assert.Empty(t, traced.errs)
}

func TestProfileRepository_InvalidRole(t *testing.T) {
	repo := NewProfileRepository(newSchemaTestDB(t))
	_, err := repo.GetRoleProfile(context.Background(), uuid.New(), entities.Role("ghost"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRole)
	assert.ErrorIs(t, repo.DeleteRoleProfile(context.Background(), uuid.New(), entities.Role("")), domainerrors.ErrInvalidRole)
}

func TestProfileRepository_GenericLifecycle(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	id := seedAccount(t, db, entities.RoleStudent)

	require.NoError(t, repo.CreateGeneric(ctx, &entities.GenericProfile{
		AccountID:     id,
		WalletBalance: "0.00",
		KYCStatus:     entities.KYCNotStarted,
	}))
	assert.ErrorIs(t, repo.CreateGeneric(ctx, &entities.GenericProfile{AccountID: id, KYCStatus: entities.KYCNotStarted}), domainerrors.ErrProfileAlreadyExists)

	g, err := repo.GetGeneric(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.KYCNotStarted, g.KYCStatus)
	assert.Equal(t, "0.00", g.WalletBalance)

	g.City = "Mombasa"
	require.NoError(t, repo.UpdateGeneric(ctx, g))
	g, err = repo.GetGeneric(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mombasa", g.City)

	require.NoError(t, repo.DeleteGeneric(ctx, id))
	_, err = repo.GetGeneric(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.NoError(t, repo.DeleteGeneric(ctx, id))
}

func TestProfileRepository_RejectsProfileWithoutAccount(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	ghost := uuid.New()

	err := repo.CreateRoleProfile(ctx, &entities.StudentProfile{AccountID: ghost})
	assert.ErrorIs(t, err, domainerrors.ErrMissingReference)
	err = repo.CreateRoleProfile(ctx, &entities.TutorProfile{AccountID: ghost, HourlyRate: "0.00"})
	assert.ErrorIs(t, err, domainerrors.ErrMissingReference)
	err = repo.CreateGeneric(ctx, &entities.GenericProfile{AccountID: ghost, WalletBalance: "0.00", KYCStatus: entities.KYCNotStarted})
	assert.ErrorIs(t, err, domainerrors.ErrMissingReference)

	profiles, err := repo.ListRoleProfiles(ctx, ghost)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestProfileRepository_AccountDeleteCascades(t *testing.T) {
	db := newSchemaTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	id := seedRoleAccount(t, db, entities.RoleTutor)
	require.NoError(t, repo.CreateGeneric(ctx, &entities.GenericProfile{AccountID: id, WalletBalance: "0.00", KYCStatus: entities.KYCNotStarted}))

	require.NoError(t, NewAccountRepository(db).Delete(ctx, id))

	profiles, err := repo.ListRoleProfiles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, profiles)
	_, err = repo.GetGeneric(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
