package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/taskassist-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GormUserRepository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser hashes the password and inserts the user.
func (r *GormUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	taken := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username)
	if user.Email != nil {
		taken = taken.Or("email = ?", *user.Email)
	}
	var count int64
	if err := taken.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: username or email already registered", ErrDuplicate)
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = true

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindUserByID finds a user by ID
func (r *GormUserRepository) FindUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindUserByUsername finds a user by username
func (r *GormUserRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// SearchUsers matches the query against username, email and names.
func (r *GormUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := containsPattern(query)
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '"+likeEscape+"'"+
			" OR LOWER(email) LIKE ? ESCAPE '"+likeEscape+"'"+
			" OR LOWER(first_name) LIKE ? ESCAPE '"+likeEscape+"'"+
			" OR LOWER(last_name) LIKE ? ESCAPE '"+likeEscape+"'",
			pattern, pattern, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// VerifyUser checks the password and stamps LastLogin on success.
func (r *GormUserRepository) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := r.db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// translateError maps GORM errors onto repository errors.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
