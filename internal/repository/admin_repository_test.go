package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

var adminRowColumns = []string{"id", "email", "password_hash", "role", "last_login", "created_at", "updated_at"}

func TestAdminRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(adminRowColumns).
		AddRow("0e7d1c2a-5b8a-4c5d-9a51-0a8c7f3c2b11", "admin@example.com", "hash", string(models.RoleAdmin), nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, last_login, created_at, updated_at FROM admins WHERE email = $1 LIMIT 1")).
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	admin, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Nil(t, admin.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	id := "0e7d1c2a-5b8a-4c5d-9a51-0a8c7f3c2b11"
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.FindByID(context.Background(), "42")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateAndCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins").WillReturnResult(sqlmock.NewResult(1, 1))
	admin := &models.Admin{Email: "admin@example.com", PasswordHash: "hash", Role: models.RoleSuperAdmin}
	require.NoError(t, repo.Create(context.Background(), admin))
	assert.NotEmpty(t, admin.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryUpdateCredentials(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET email = $2, password_hash = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("a1", "new@example.com", "hash", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateCredentials(context.Background(), "a1", "new@example.com", "hash", ts))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET email")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateCredentials(context.Background(), "missing", "x@example.com", "hash", ts)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))
	entry := &models.AuditLog{Action: models.AuditActionLogin, Resource: "admin"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
