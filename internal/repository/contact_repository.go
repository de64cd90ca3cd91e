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
	"github.com/lib/pq"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

const contactColumns = `id, first_name, last_name, email, subject, message, status, admin_notes, ip_address, user_agent, created_at, updated_at`

var contactSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"email":     "email",
	"status":    "status",
	"subject":   "subject",
	"lastname":  "last_name",
}

// ContactRepository persists the contact inbox.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a contact message.
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	const query = `INSERT INTO contacts (` + contactColumns + `) VALUES (:id, :first_name, :last_name, :email, :subject, :message, :status, :admin_notes, :ip_address, :user_agent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// GetByID returns a contact message.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	var contact models.Contact
	query := fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1", contactColumns)
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contact, nil
}

// List returns contacts matching the filter and the total match count.
func (r *ContactRepository) List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, int, error) {
	baseQuery := `FROM contacts WHERE 1=1`
	var args []interface{}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		baseQuery += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%[1]d OR LOWER(last_name) LIKE $%[1]d OR LOWER(email) LIKE $%[1]d OR LOWER(subject) LIKE $%[1]d OR LOWER(message) LIKE $%[1]d)", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		baseQuery += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		baseQuery += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	sortBy, ok := contactSortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s", contactColumns, baseQuery, sortBy, sortOrder)
	if !filter.Unpaged {
		page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
		listQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	}

	contacts := make([]models.Contact, 0)
	if err := r.db.SelectContext(ctx, &contacts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	if filter.Unpaged {
		return contacts, len(contacts), nil
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	return contacts, total, nil
}

// CountByStatus groups the whole inbox per status.
func (r *ContactRepository) CountByStatus(ctx context.Context) ([]models.ContactStatusCount, error) {
	rows := make([]models.ContactStatusCount, 0)
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM contacts GROUP BY status ORDER BY status`); err != nil {
		return nil, fmt.Errorf("count contacts by status: %w", err)
	}
	return rows, nil
}

// UpdateTriage stores the status and admin notes of a contact.
func (r *ContactRepository) UpdateTriage(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now().UTC()
	const query = `UPDATE contacts SET status = :status, admin_notes = :admin_notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, contact)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a contact message.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteMany removes the listed contacts and returns how many existed.
func (r *ContactRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete contacts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk delete contacts: %w", err)
	}
	return affected, nil
}
