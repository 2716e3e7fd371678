package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/testutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}

func newSchemaTestDB(t *testing.T) *gorm.DB {
	return testutil.NewSchemaDB(t)
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	testutil.MustExec(t, db, q, args...)
}

// seedAccount inserts an account row with the given role and returns its ID
func seedAccount(t *testing.T, db *gorm.DB, role entities.Role) uuid.UUID {
	t.Helper()
	handle := uuid.NewString()[:8]
	acc := newAccount(handle+"@x.com", handle, role)
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), acc))
	return acc.ID
}

// seedRoleAccount inserts an account together with its role profile
func seedRoleAccount(t *testing.T, db *gorm.DB, role entities.Role) uuid.UUID {
	t.Helper()
	id := seedAccount(t, db, role)
	profile, ok := entities.NewRoleProfile(id, role)
	require.True(t, ok)
	require.NoError(t, NewProfileRepository(db).CreateRoleProfile(context.Background(), profile))
	return id
}
