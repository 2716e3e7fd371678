// Package testutil provides sqlite-backed fixtures mirroring the production schema.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB opens an empty in-memory sqlite database unique to the test.
// Foreign keys are enforced on every pooled connection.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func MustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func CreateAccountTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	MustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		gender TEXT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE UNIQUE INDEX idx_accounts_email ON accounts(email);`)
	MustExec(t, db, `CREATE UNIQUE INDEX idx_accounts_username ON accounts(username);`)
}

func CreateProfileTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	MustExec(t, db, `CREATE TABLE student_profiles (
		account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		grade_level TEXT,
		school TEXT,
		learning_goals TEXT,
		guardian_contact TEXT,
		preferred_language TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE TABLE tutor_profiles (
		account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		qualifications TEXT,
		subjects TEXT,
		experience_years INTEGER NOT NULL DEFAULT 0,
		hourly_rate TEXT NOT NULL DEFAULT '0.00',
		rating REAL NOT NULL DEFAULT 0,
		is_approved BOOLEAN NOT NULL DEFAULT 0,
		approved_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE TABLE admin_profiles (
		account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		admin_level TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE TABLE generic_profiles (
		account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		address TEXT,
		city TEXT,
		country TEXT,
		identity_document_type TEXT,
		identity_document_number TEXT,
		wallet_balance TEXT NOT NULL DEFAULT '0.00',
		kyc_status TEXT NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func CreateCourseTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	MustExec(t, db, `CREATE TABLE courses (
		id TEXT PRIMARY KEY,
		tutor_id TEXT NOT NULL REFERENCES tutor_profiles(account_id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		level TEXT,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE TABLE enrollments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES student_profiles(account_id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		enrolled_at DATETIME NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0,
		completion_date DATETIME
	);`)
	MustExec(t, db, `CREATE UNIQUE INDEX idx_enrollments_student_course ON enrollments(student_id, course_id);`)
}

func CreateSchedulingTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	MustExec(t, db, `CREATE TABLE tutoring_sessions (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		tutor_id TEXT NOT NULL REFERENCES tutor_profiles(account_id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		scheduled_at DATETIME NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 60,
		mode TEXT NOT NULL DEFAULT 'online',
		video_url TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled',
		created_at DATETIME,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE TABLE session_bookings (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES tutoring_sessions(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL REFERENCES student_profiles(account_id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'confirmed',
		booked_at DATETIME NOT NULL,
		updated_at DATETIME
	);`)
	MustExec(t, db, `CREATE UNIQUE INDEX idx_session_bookings_session_student ON session_bookings(session_id, student_id);`)
	MustExec(t, db, `CREATE TABLE attendance_records (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES tutoring_sessions(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL REFERENCES student_profiles(account_id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		notes TEXT,
		recorded_at DATETIME NOT NULL
	);`)
	MustExec(t, db, `CREATE UNIQUE INDEX idx_attendance_records_session_student ON attendance_records(session_id, student_id);`)
}

// NewSchemaDB opens an in-memory database with every table created
func NewSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewTestDB(t)
	CreateAccountTable(t, db)
	CreateProfileTables(t, db)
	CreateCourseTables(t, db)
	CreateSchedulingTables(t, db)
	return db
}
