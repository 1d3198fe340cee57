package repository

import (
	"context"

	"github.com/yukikurage/taskassist-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) ListProjects(ctx context.Context, q ProjectQuery) ([]models.Project, error) {
	db := r.db.WithContext(ctx)
	if q.Owner != nil {
		db = db.Where("user_id = ?", *q.Owner)
	}
	if q.AccessibleTo != nil {
		contacts := r.db.Model(&models.TeamMember{}).Select("user_id2").Where("user_id1 = ?", *q.AccessibleTo)
		db = db.Where("user_id = ? OR (is_public = ? AND user_id IN (?))", *q.AccessibleTo, true, contacts)
	}

	projects := []models.Project{}
	if err := db.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) FindProjectByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

func (r *GormProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}
