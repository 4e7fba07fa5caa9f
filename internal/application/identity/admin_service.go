package identity

import (
	"context"
	"errors"

	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CreateAdminInput describes a desk administrator
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AdminResult reports the administrator after EnsureSystemManager
type AdminResult struct {
	User    UserInfo
	Created bool
}

// AdminService maintains desk users
type AdminService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo identity.UserRepository, logger *zap.Logger) *AdminService {
	return &AdminService{userRepo: userRepo, logger: logger}
}

// SetEventPublisher sets the publisher for user events
func (s *AdminService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// EnsureSystemManager creates an enabled System User holding the System
// Manager role. An existing user keeps its account, gets the role and the
// new password.
func (s *AdminService) EnsureSystemManager(ctx context.Context, input CreateAdminInput) (*AdminResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	created := false
	switch {
	case err == nil:
		if err := user.SetPassword(input.Password); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewSystemUser(input.Email, input.FirstName, input.LastName, input.Password)
		if err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, err
	}

	if _, err := user.GrantRole(identity.RoleSystemManager); err != nil {
		return nil, err
	}

	if created {
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.Update(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			log.Warn("Failed to publish admin events", zap.Error(err))
		}
	}

	log.Info("System Manager ensured",
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created),
	)
	return &AdminResult{
		User: UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName(),
			UserType: string(user.UserType),
			Roles:    user.Roles,
		},
		Created: created,
	}, nil
}
