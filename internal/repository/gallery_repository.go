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

const galleryColumns = `id, title, description, category, image_url, alt_text, created_at, updated_at`

const galleryInsert = `INSERT INTO gallery_items (` + galleryColumns + `) VALUES (:id, :title, :description, :category, :image_url, :alt_text, :created_at, :updated_at)`

var gallerySortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"category":  "category",
}

// GalleryRepository persists gallery items.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new instance of GalleryRepository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func stampGalleryItem(item *models.GalleryItem, now time.Time) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = now
	item.UpdatedAt = now
}

// Create inserts a gallery item.
func (r *GalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	stampGalleryItem(item, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, galleryInsert, item); err != nil {
		return fmt.Errorf("create gallery item: %w", err)
	}
	return nil
}

// CreateBatch inserts all items in one transaction.
func (r *GalleryRepository) CreateBatch(ctx context.Context, items []models.GalleryItem) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin gallery batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range items {
		stampGalleryItem(&items[i], now)
		if _, err = tx.NamedExecContext(ctx, galleryInsert, &items[i]); err != nil {
			return fmt.Errorf("insert gallery item %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit gallery batch: %w", err)
	}
	return nil
}

// GetByID returns a gallery item.
func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	var item models.GalleryItem
	query := fmt.Sprintf("SELECT %s FROM gallery_items WHERE id = $1", galleryColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get gallery item: %w", err)
	}
	return &item, nil
}

// List returns a page of gallery items with the total match count.
func (r *GalleryRepository) List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, int, error) {
	baseQuery := `FROM gallery_items WHERE 1=1`
	var args []interface{}
	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		baseQuery += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		baseQuery += fmt.Sprintf(" AND (LOWER(title) LIKE $%[1]d OR LOWER(description) LIKE $%[1]d)", len(args))
	}

	sortBy, ok := gallerySortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", galleryColumns, baseQuery, sortBy, sortOrder, pageSize, (page-1)*pageSize)
	items := make([]models.GalleryItem, 0)
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list gallery items: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count gallery items: %w", err)
	}
	return items, total, nil
}

// Update rewrites the editable fields of a gallery item.
func (r *GalleryRepository) Update(ctx context.Context, item *models.GalleryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE gallery_items SET title = :title, description = :description, category = :category, image_url = :image_url, alt_text = :alt_text, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update gallery item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a gallery item.
func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByCategory groups items per category, largest first.
func (r *GalleryRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows := make([]models.CategoryCount, 0)
	if err := r.db.SelectContext(ctx, &rows, `SELECT category, COUNT(*) AS count FROM gallery_items GROUP BY category ORDER BY count DESC, category`); err != nil {
		return nil, fmt.Errorf("count gallery categories: %w", err)
	}
	return rows, nil
}

// CountSince counts items created at or after since; a zero since counts everything.
func (r *GalleryRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM gallery_items WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("count gallery items: %w", err)
	}
	return total, nil
}
