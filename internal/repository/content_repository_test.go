package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

func TestDocumentRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "category", "description", "file_size", "file_type", "upload_date", "url", "created_at", "updated_at"}).
		AddRow("d1", "Fees 2026", "financial", "fee schedule", "1 MB", "PDF", now, "/docs/fees.pdf", now, now)
	mock.ExpectQuery(`FROM documents WHERE 1=1 AND category = \$1 AND \(LOWER\(name\) LIKE \$2 OR LOWER\(description\) LIKE \$2\) ORDER BY upload_date DESC LIMIT 5`).
		WithArgs("financial", "%fee%").
		WillReturnRows(rows)

	docs, err := repo.List(context.Background(), models.DocumentFilter{Category: "financial", Query: "Fee", Limit: 5})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Fees 2026", docs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryNameExistsExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM documents WHERE name = $1 AND id <> $2)")).
		WithArgs("Fees", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.NameExists(context.Background(), "Fees", "d1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateKeepsUploadDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec(`UPDATE documents SET name = .+, url = .+, updated_at = .+ WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &models.Document{ID: "d1", Name: "Fees"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryRepositoryCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO gallery_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO gallery_items").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []models.GalleryItem{{Title: "a"}, {Title: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert gallery item 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryRepositoryCreateBatchCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO gallery_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	items := []models.GalleryItem{{Title: "a", Category: "Sports", ImageURL: "/a.jpg"}}
	require.NoError(t, repo.CreateBatch(context.Background(), items))
	assert.NotEmpty(t, items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryRepositoryListAllCategory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM gallery_items WHERE 1=1 ORDER BY title ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "category", "image_url", "alt_text", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM gallery_items WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.List(context.Background(), models.GalleryFilter{Category: "all", SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderRepositoryGetByPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaderRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "position", "name", "role", "image", "social", "category", "phone", "profession", "created_at", "updated_at"}).
		AddRow("l1", 2, "Grace", "Principal", "", []byte(`{"linkedin":"#","email":"grace@example.com"}`), "board", "", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leaders WHERE position = $1")).
		WithArgs(2).
		WillReturnRows(rows)

	leader, err := repo.GetByPosition(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", leader.Social.Email)
	assert.Equal(t, "#", leader.Social.LinkedIn)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM leaders WHERE position = $1")).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteByPosition(context.Background(), 9), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	id := "5f0a3c1e-7a8b-4e2b-9b7f-2c1d0e9f8a11"
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1 AND is_active = TRUE")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByID(context.Background(), id, true)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET is_active = FALSE")).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Deactivate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListDateRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE 1=1 AND type = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp DESC LIMIT 10 OFFSET 10")).
		WithArgs("warning", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "message", "type", "timestamp", "created_at", "updated_at"}).
			AddRow("n1", "Heads up", "msg", "warning", start, start, start))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications")).
		WithArgs("warning", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.List(context.Background(), models.NotificationFilter{Type: "warning", StartDate: &start, EndDate: &end, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 11, total)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications")).WillReturnResult(sqlmock.NewResult(0, 4))
	removed, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepositoryBulkDeleteAndCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContactRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts WHERE id = ANY($1::uuid[])")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	removed, err := repo.DeleteMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM contacts GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("new", 3).AddRow("read", 1))
	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.ContactStatusNew, counts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepositoryListUnpaged(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContactRepository(db)

	mock.ExpectQuery(`FROM contacts WHERE 1=1 AND status = \$1 ORDER BY created_at DESC$`).
		WithArgs(models.ContactStatusReplied).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "subject", "message", "status", "admin_notes", "ip_address", "user_agent", "created_at", "updated_at"}))

	contacts, total, err := repo.List(context.Background(), models.ContactFilter{Status: models.ContactStatusReplied, Unpaged: true})
	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
