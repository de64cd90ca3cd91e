package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

const leaderColumns = `id, position, name, role, image, social, category, phone, profession, created_at, updated_at`

// Unique constraints guarding the leaders table.
const (
	LeaderPositionConstraint = "leaders_position_key"
	LeaderEmailConstraint    = "leaders_email_key"
)

// LeaderRepository persists the leadership page. Leaders are addressed by position.
type LeaderRepository struct {
	db *sqlx.DB
}

// NewLeaderRepository creates a new instance of LeaderRepository.
func NewLeaderRepository(db *sqlx.DB) *LeaderRepository {
	return &LeaderRepository{db: db}
}

// Create inserts a leader.
func (r *LeaderRepository) Create(ctx context.Context, leader *models.Leader) error {
	if leader.ID == "" {
		leader.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	leader.CreatedAt = now
	leader.UpdatedAt = now

	const query = `INSERT INTO leaders (` + leaderColumns + `) VALUES (:id, :position, :name, :role, :image, :social, :category, :phone, :profession, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leader); err != nil {
		return fmt.Errorf("create leader: %w", err)
	}
	return nil
}

// List returns every leader in display order.
func (r *LeaderRepository) List(ctx context.Context) ([]models.Leader, error) {
	leaders := make([]models.Leader, 0)
	query := fmt.Sprintf("SELECT %s FROM leaders ORDER BY position ASC", leaderColumns)
	if err := r.db.SelectContext(ctx, &leaders, query); err != nil {
		return nil, fmt.Errorf("list leaders: %w", err)
	}
	return leaders, nil
}

// GetByPosition returns the leader shown at position.
func (r *LeaderRepository) GetByPosition(ctx context.Context, position int) (*models.Leader, error) {
	var leader models.Leader
	query := fmt.Sprintf("SELECT %s FROM leaders WHERE position = $1", leaderColumns)
	if err := r.db.GetContext(ctx, &leader, query, position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get leader: %w", err)
	}
	return &leader, nil
}

// ExistsByPositionOrEmail reports whether position or e-mail is already taken.
func (r *LeaderRepository) ExistsByPositionOrEmail(ctx context.Context, position int, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM leaders WHERE position = $1 OR social->>'email' = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, position, email); err != nil {
		return false, fmt.Errorf("check leader uniqueness: %w", err)
	}
	return exists, nil
}

// EmailTaken reports whether another leader already uses email.
func (r *LeaderRepository) EmailTaken(ctx context.Context, email string, excludePosition int) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM leaders WHERE social->>'email' = $1 AND position <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, excludePosition); err != nil {
		return false, fmt.Errorf("check leader email: %w", err)
	}
	return exists, nil
}

// Update rewrites the editable fields of the leader at leader.Position.
func (r *LeaderRepository) Update(ctx context.Context, leader *models.Leader) error {
	leader.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leaders SET name = :name, role = :role, image = :image, social = :social, category = :category, phone = :phone, profession = :profession, updated_at = :updated_at WHERE position = :position`
	res, err := r.db.NamedExecContext(ctx, query, leader)
	if err != nil {
		return fmt.Errorf("update leader: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByPosition removes the leader at position.
func (r *LeaderRepository) DeleteByPosition(ctx context.Context, position int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leaders WHERE position = $1`, position)
	if err != nil {
		return fmt.Errorf("delete leader: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
