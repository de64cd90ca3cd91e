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

const applicationColumns = `id, application_number, personal_info, location_info, course_selection, documents, education, work_experience, additional_info, terms_agreed, status, status_history, payment, submitted_at, reviewed_by, reviewed_at, review_notes, reviewer_comments, ip_address, user_agent, created_at, updated_at`

// ApplicationNumberConstraint is the unique constraint guarding application numbers.
const ApplicationNumberConstraint = "applications_application_number_key"

var applicationSortColumns = map[string]string{
	"createdAt":         "created_at",
	"created_at":        "created_at",
	"updatedAt":         "updated_at",
	"updated_at":        "updated_at",
	"submittedAt":       "submitted_at",
	"submitted_at":      "submitted_at",
	"status":            "status",
	"applicationNumber": "application_number",
	"firstName":         "personal_info->>'firstName'",
	"lastName":          "personal_info->>'lastName'",
	"email":             "personal_info->>'email'",
	"program":           "course_selection->>'program'",
	"intakeYear":        "(course_selection->>'intakeYear')::int",
}

// ApplicationRepository persists applications with their nested records as JSONB.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = app.CreatedAt

	const query = `INSERT INTO applications (` + applicationColumns + `) VALUES (:id, :application_number, :personal_info, :location_info, :course_selection, :documents, :education, :work_experience, :additional_info, :terms_agreed, :status, :status_history, :payment, :submitted_at, :reviewed_by, :reviewed_at, :review_notes, :reviewer_comments, :ip_address, :user_agent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetByID returns an application by identifier.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByNumber returns an application by its human-readable number.
func (r *ApplicationRepository) GetByNumber(ctx context.Context, number string) (*models.Application, error) {
	return r.getOne(ctx, "application_number = $1", number)
}

func (r *ApplicationRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications WHERE %s LIMIT 1", applicationColumns, where)
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &app, nil
}

// Update rewrites every mutable column of an application.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	app.UpdatedAt = time.Now().UTC()
	const query = `UPDATE applications SET application_number = :application_number, personal_info = :personal_info, location_info = :location_info, course_selection = :course_selection, documents = :documents, education = :education, work_experience = :work_experience, additional_info = :additional_info, terms_agreed = :terms_agreed, status = :status, status_history = :status_history, payment = :payment, submitted_at = :submitted_at, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at, review_notes = :review_notes, reviewer_comments = :reviewer_comments, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an application row.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExistsForIntake reports whether an application already targets the same program and intake year.
func (r *ApplicationRepository) ExistsForIntake(ctx context.Context, email, program string, intakeYear int) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM applications WHERE personal_info->>'email' = $1 AND course_selection->>'program' = $2 AND (course_selection->>'intakeYear')::int = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, program, intakeYear); err != nil {
		return false, fmt.Errorf("check application uniqueness: %w", err)
	}
	return exists, nil
}

// CountCreatedSince counts applications created at or after since.
func (r *ApplicationRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

// NumberExists reports whether an application number is already assigned.
func (r *ApplicationRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM applications WHERE application_number = $1)`, number); err != nil {
		return false, fmt.Errorf("check application number: %w", err)
	}
	return exists, nil
}

// List returns applications based on filters with total count.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	baseQuery := `FROM applications WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Program != "" {
		args = append(args, filter.Program)
		conditions = append(conditions, fmt.Sprintf("course_selection->>'program' = $%d", len(args)))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		conditions = append(conditions, fmt.Sprintf("course_selection->>'level' = $%d", len(args)))
	}
	if filter.IntakeYear > 0 {
		args = append(args, filter.IntakeYear)
		conditions = append(conditions, fmt.Sprintf("(course_selection->>'intakeYear')::int = $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(filter.Email))
		conditions = append(conditions, fmt.Sprintf("personal_info->>'email' = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(personal_info->>'firstName') LIKE $%[1]d OR LOWER(personal_info->>'lastName') LIKE $%[1]d OR LOWER(personal_info->>'email') LIKE $%[1]d OR personal_info->>'phone' LIKE $%[1]d OR LOWER(COALESCE(application_number, '')) LIKE $%[1]d)", n))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, ok := applicationSortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, id", applicationColumns, baseQuery, sortBy, sortOrder)
	if !filter.Unpaged {
		page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
		listQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	}

	apps := make([]models.Application, 0)
	if err := r.db.SelectContext(ctx, &apps, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	if filter.Unpaged {
		return apps, len(apps), nil
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	return apps, total, nil
}

// Statistics aggregates application counts by status.
func (r *ApplicationRepository) Statistics(ctx context.Context) (*models.ApplicationStatistics, error) {
	var rows []models.StatusCount
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM applications GROUP BY status ORDER BY status`); err != nil {
		return nil, fmt.Errorf("aggregate applications: %w", err)
	}

	stats := &models.ApplicationStatistics{ByStatus: make([]models.StatusCount, 0, len(rows))}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.ApplicationStatusSubmitted:
			stats.Submitted = row.Count
		case models.ApplicationStatusAccepted:
			stats.Accepted = row.Count
		}
		stats.ByStatus = append(stats.ByStatus, row)
	}
	return stats, nil
}
