package services

import (
	"context"
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
)

var ErrProjectNotFound = apierrors.New(apierrors.ErrNotFound, "Project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name     string
	Color    string
	UserID   *uint64
	TeamID   *uint64
	IsPublic bool
	ActorID  *uint64
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, repository.ProjectQuery{})
}

// ListUserProjects returns the projects owned by userID.
func (s *ProjectService) ListUserProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	return s.list(ctx, repository.ProjectQuery{Owner: &userID})
}

// ListAccessibleProjects returns the projects userID owns plus the public
// projects of userID's team members.
func (s *ProjectService) ListAccessibleProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	return s.list(ctx, repository.ProjectQuery{AccessibleTo: &userID})
}

func (s *ProjectService) list(ctx context.Context, q repository.ProjectQuery) ([]models.Project, error) {
	projects, err := s.projects.ListProjects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projects.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project owned by the given userId or, when absent,
// the authenticated caller.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	owner := input.UserID
	if owner == nil {
		owner = input.ActorID
	}
	if owner == nil {
		return nil, apierrors.NewValidationError("userId", "is required")
	}

	project := &models.Project{
		Name:     input.Name,
		Color:    input.Color,
		UserID:   *owner,
		TeamID:   input.TeamID,
		IsPublic: input.IsPublic,
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}
