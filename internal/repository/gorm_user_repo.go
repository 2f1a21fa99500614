package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user. Username and email uniqueness is pre-checked so
// the caller gets a precise conflict error; the unique indexes remain the
// last line of defence against concurrent registrations.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.IsActive = true

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameExists
	}

	if err := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	model := domain.UserToModel(user)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return r.handleError(result.Error)
	}

	// Update the domain object with generated id and timestamp
	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByUsername retrieves a user by username.
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// UpdateProfilePicture persists the stored profile picture path for a user.
func (r *GormUserRepository) UpdateProfilePicture(ctx context.Context, userID uint, path string) error {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", userID).
		Update("profile_picture", path)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UsernamesByIDs resolves usernames for a set of user IDs in one query.
func (r *GormUserRepository) UsernamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []struct {
		ID       uint
		Username string
	}
	err := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = row.Username
	}
	return result, nil
}

// handleError converts database-specific errors to domain errors. String
// matching covers drivers that predate gorm's error translation.
func (r *GormUserRepository) handleError(err error) error {
	errStr := err.Error()

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "Duplicate entry") {
		if strings.Contains(errStr, "email") {
			return ErrEmailExists
		}
		return ErrUsernameExists
	}

	return err
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*GormUserRepository)(nil)
