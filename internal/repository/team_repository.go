package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/taskassist-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new GormTeamRepository
func NewTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// AddTeamMember creates both directions of the relation in one transaction
func (r *GormTeamRepository) AddTeamMember(ctx context.Context, userID1, userID2 uint64) (*models.TeamMemberView, error) {
	if userID1 == userID2 {
		return nil, fmt.Errorf("%w: a user cannot be their own team member", ErrDuplicate)
	}

	var view models.TeamMemberView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user1 models.User
		if err := tx.First(&user1, userID1).Error; err != nil {
			return fmt.Errorf("user %d: %w", userID1, translateError(err))
		}

		var user2 models.User
		if err := tx.First(&user2, userID2).Error; err != nil {
			return fmt.Errorf("user %d: %w", userID2, translateError(err))
		}

		var existing int64
		if err := tx.Model(&models.TeamMember{}).
			Where("(user_id1 = ? AND user_id2 = ?) OR (user_id1 = ? AND user_id2 = ?)",
				userID1, userID2, userID2, userID1).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: users %d and %d are already connected", ErrDuplicate, userID1, userID2)
		}

		edges := []models.TeamMember{
			{UserID1: userID1, UserID2: userID2},
			{UserID1: userID2, UserID2: userID1},
		}
		if err := tx.Create(&edges).Error; err != nil {
			return translateError(err)
		}

		user2.Password = ""
		view = models.TeamMemberView{Connection: edges[0], User: user2}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListTeamMembers lists all contacts connected from userID
func (r *GormTeamRepository) ListTeamMembers(ctx context.Context, userID uint64) ([]models.TeamMemberView, error) {
	var edges []models.TeamMember
	if err := r.db.WithContext(ctx).
		Where("user_id1 = ?", userID).
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}

	views := make([]models.TeamMemberView, 0, len(edges))
	if len(edges) == 0 {
		return views, nil
	}

	ids := make([]uint64, len(edges))
	for i, e := range edges {
		ids[i] = e.UserID2
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]models.User, len(users))
	for _, u := range users {
		u.Password = ""
		byID[u.ID] = u
	}

	for _, e := range edges {
		user, ok := byID[e.UserID2]
		if !ok {
			continue
		}
		views = append(views, models.TeamMemberView{Connection: e, User: user})
	}
	return views, nil
}
