package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user and its role grants
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return translateError(err)
		}
		return r.insertRoles(tx, user.ID, user.Roles)
	})
}

// Update saves the user and replaces its role grants
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, &models.UserModel{}, user.ID, models.UserModelFromDomain(user)); err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND role NOT IN ?", user.ID, append([]string{""}, user.Roles...)).
			Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		var existing []string
		if err := tx.Model(&models.UserRoleModel{}).Where("user_id = ?", user.ID).Pluck("role", &existing).Error; err != nil {
			return err
		}
		held := make(map[string]bool, len(existing))
		for _, role := range existing {
			held[role] = true
		}
		missing := make([]string, 0)
		for _, role := range user.Roles {
			if !held[role] {
				missing = append(missing, role)
			}
		}
		return r.insertRoles(tx, user.ID, missing)
	})
}

func (r *GormUserRepository) insertRoles(tx *gorm.DB, userID uuid.UUID, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.UserRoleModel, len(roles))
	for i, role := range roles {
		rows[i] = models.UserRoleModel{UserID: userID, Role: role, CreatedAt: now}
	}
	return translateError(tx.Create(&rows).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "email = ?", email)
}

// FindByAPIKey finds a user by API key
func (r *GormUserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*identity.User, error) {
	if apiKey == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "api_key = ?", apiKey)
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// CountRoleGrants counts grants of role to the user
func (r *GormUserRepository) CountRoleGrants(ctx context.Context, userID uuid.UUID, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserRoleModel{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count, err
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, args ...any) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	user := model.ToDomain()

	var grants []models.UserRoleModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("created_at, role").Find(&grants).Error; err != nil {
		return nil, err
	}
	for _, g := range grants {
		user.Roles = append(user.Roles, g.Role)
	}
	return user, nil
}

// Ensure GormUserRepository implements identity.UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
