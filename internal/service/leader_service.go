package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	"github.com/noah-isme/admissions-portal-api/pkg/database"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

const defaultLinkedIn = "#"

type leaderRepository interface {
	Create(ctx context.Context, leader *models.Leader) error
	List(ctx context.Context) ([]models.Leader, error)
	GetByPosition(ctx context.Context, position int) (*models.Leader, error)
	ExistsByPositionOrEmail(ctx context.Context, position int, email string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludePosition int) (bool, error)
	Update(ctx context.Context, leader *models.Leader) error
	DeleteByPosition(ctx context.Context, position int) error
}

// LeaderService manages the leadership page.
type LeaderService struct {
	repo      leaderRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaderService creates a leader service.
func NewLeaderService(repo leaderRepository, validate *validator.Validate, logger *zap.Logger) *LeaderService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderService{repo: repo, validator: validate, logger: logger}
}

// Add creates a leader. Position and e-mail must both be free.
func (s *LeaderService) Add(ctx context.Context, req dto.LeaderRequest) (*models.Leader, error) {
	req.Social.Email = strings.ToLower(strings.TrimSpace(req.Social.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid leader payload")
	}
	exists, err := s.repo.ExistsByPositionOrEmail(ctx, req.Position, req.Social.Email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check leader uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a leader with this position or email already exists")
	}

	leader := &models.Leader{
		Position:   req.Position,
		Name:       strings.TrimSpace(req.Name),
		Role:       strings.TrimSpace(req.Role),
		Image:      req.Image,
		Social:     models.LeaderSocial{LinkedIn: strings.TrimSpace(req.Social.LinkedIn), Email: req.Social.Email},
		Category:   req.Category,
		Phone:      strings.TrimSpace(req.Phone),
		Profession: req.Profession,
	}
	if leader.Social.LinkedIn == "" {
		leader.Social.LinkedIn = defaultLinkedIn
	}
	if err := s.repo.Create(ctx, leader); err != nil {
		return nil, s.writeError(err, "create")
	}
	return leader, nil
}

// List returns leaders in display order.
func (s *LeaderService) List(ctx context.Context) ([]models.Leader, error) {
	leaders, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list leaders")
	}
	return leaders, nil
}

// Get returns the leader at position.
func (s *LeaderService) Get(ctx context.Context, position int) (*models.Leader, error) {
	leader, err := s.repo.GetByPosition(ctx, position)
	if err != nil {
		return nil, lookupError(err, "leader", "load")
	}
	return leader, nil
}

// Update applies a partial update to the leader at position.
func (s *LeaderService) Update(ctx context.Context, position int, patch dto.LeaderPatch) (*models.Leader, error) {
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &email
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid leader payload")
	}
	leader, err := s.Get(ctx, position)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != leader.Social.Email {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, position)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check leader email")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a leader with this email already exists")
		}
		leader.Social.Email = *patch.Email
	}
	if patch.Name != nil {
		leader.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Role != nil {
		leader.Role = strings.TrimSpace(*patch.Role)
	}
	if patch.Image != nil {
		leader.Image = *patch.Image
	}
	if patch.LinkedIn != nil {
		leader.Social.LinkedIn = strings.TrimSpace(*patch.LinkedIn)
		if leader.Social.LinkedIn == "" {
			leader.Social.LinkedIn = defaultLinkedIn
		}
	}
	if patch.Category != nil {
		leader.Category = *patch.Category
	}
	if patch.Phone != nil {
		leader.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Profession != nil {
		leader.Profession = *patch.Profession
	}

	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, s.writeError(err, "update")
	}
	return leader, nil
}

// Delete removes the leader at position.
func (s *LeaderService) Delete(ctx context.Context, position int) error {
	if err := s.repo.DeleteByPosition(ctx, position); err != nil {
		return lookupError(err, "leader", "delete")
	}
	return nil
}

func (s *LeaderService) writeError(err error, action string) error {
	if database.IsUniqueViolation(err, repository.LeaderPositionConstraint) || database.IsUniqueViolation(err, repository.LeaderEmailConstraint) {
		return appErrors.Clone(appErrors.ErrConflict, "a leader with this position or email already exists")
	}
	return lookupError(err, "leader", action)
}
