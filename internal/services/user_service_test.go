package services

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHashOf matches any argument that is a bcrypt digest of the given
// plaintext. Digests are salted, so equality checks never work here.
type bcryptHashOf struct {
	plain string
}

func (b bcryptHashOf) Match(v driver.Value) bool {
	hash, ok := v.(string)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(b.plain)) == nil
}

func uniqueViolation(column string) error {
	return fmt.Errorf("UNIQUE constraint failed: %s: %w", column, sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	})
}

func TestUserService_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserService(db)

	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)")).
		WithArgs("al", "al@x.com", bcryptHashOf{plain: "pw123456"}).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, is_admin, created_at FROM users WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_admin", "created_at"}).
			AddRow(1, "al", "al@x.com", false, createdAt))

	user, err := s.Register("al", "al@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "al", user.Username)
	assert.False(t, user.IsAdmin)
	assert.Empty(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		wantErr error
	}{
		{"duplicate email", "users.email", ErrEmailTaken},
		{"duplicate username", "users.username", ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			s := NewUserService(db)

			mock.ExpectExec("INSERT INTO users").
				WillReturnError(uniqueViolation(tt.column))

			_, err = s.Register("al", "al@x.com", "pw123456")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.DefaultCost)
	require.NoError(t, err)

	selectByEmail := regexp.QuoteMeta(
		"SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE email = ?")
	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "is_admin", "created_at"}).
			AddRow(1, "al", "al@x.com", string(hash), false, time.Now())
	}

	t.Run("valid credentials", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		s := NewUserService(db)

		mock.ExpectQuery(selectByEmail).WithArgs("al@x.com").WillReturnRows(userRow())

		user, err := s.Authenticate("al@x.com", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		s := NewUserService(db)

		mock.ExpectQuery(selectByEmail).WithArgs("al@x.com").WillReturnRows(userRow())

		_, err = s.Authenticate("al@x.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		s := NewUserService(db)

		mock.ExpectQuery(selectByEmail).WithArgs("nobody@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "is_admin", "created_at"}))

		_, err = s.Authenticate("nobody@x.com", "pw123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserService(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, is_admin, created_at FROM users WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_admin", "created_at"}))

	_, err = s.GetUserByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteUser_Cascade(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM history_inputs WHERE history_id IN (SELECT id FROM history WHERE user_id = ?)")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM history WHERE user_id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteUser(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err = s.DeleteUser(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CountUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewUserService(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := s.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
