package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

const documentColumns = `id, name, category, description, file_size, file_type, upload_date, url, created_at, updated_at`

// DocumentNameConstraint is the unique constraint guarding document names.
const DocumentNameConstraint = "documents_name_key"

// DocumentRepository persists the document library.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.UploadDate.IsZero() {
		doc.UploadDate = now
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	const query = `INSERT INTO documents (` + documentColumns + `) VALUES (:id, :name, :category, :description, :file_size, :file_type, :upload_date, :url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID returns a document by identifier.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	var doc models.Document
	query := fmt.Sprintf("SELECT %s FROM documents WHERE id = $1", documentColumns)
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// NameExists reports whether another document already uses name.
func (r *DocumentRepository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM documents WHERE name = $1`
	args := []interface{}{name}
	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += ")"
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check document name: %w", err)
	}
	return exists, nil
}

// List returns documents newest upload first.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE 1=1", documentColumns)
	var args []interface{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
		query += fmt.Sprintf(" AND (LOWER(name) LIKE $%[1]d OR LOWER(description) LIKE $%[1]d)", len(args))
	}
	query += " ORDER BY upload_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Update rewrites the editable fields. upload_date is never changed.
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	const query = `UPDATE documents SET name = :name, category = :category, description = :description, file_size = :file_size, file_type = :file_type, url = :url, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}

// CountByCategory groups documents per category, alphabetically.
func (r *DocumentRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows := make([]models.CategoryCount, 0)
	if err := r.db.SelectContext(ctx, &rows, `SELECT category, COUNT(*) AS count FROM documents GROUP BY category ORDER BY category`); err != nil {
		return nil, fmt.Errorf("count documents by category: %w", err)
	}
	return rows, nil
}

// CountByFileType groups documents per file type, most common first.
func (r *DocumentRepository) CountByFileType(ctx context.Context) ([]models.CategoryCount, error) {
	rows := make([]models.CategoryCount, 0)
	if err := r.db.SelectContext(ctx, &rows, `SELECT file_type AS category, COUNT(*) AS count FROM documents GROUP BY file_type ORDER BY count DESC, file_type`); err != nil {
		return nil, fmt.Errorf("count documents by type: %w", err)
	}
	return rows, nil
}
