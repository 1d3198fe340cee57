package services

import (
	"context"
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
)

var (
	ErrTeamUserNotFound = apierrors.New(apierrors.ErrValidation, "User not found")
	ErrAlreadyConnected = apierrors.New(apierrors.ErrConflict, "Users are already team members")
)

// TeamService manages the contact relation between users
type TeamService struct {
	team repository.TeamRepository
}

func NewTeamService(team repository.TeamRepository) *TeamService {
	return &TeamService{team: team}
}

// AddTeamMember connects two users. A missing user is reported as a bad
// request rather than a 404 since the route itself exists.
func (s *TeamService) AddTeamMember(ctx context.Context, userID1, userID2 uint64) (*models.TeamMemberView, error) {
	view, err := s.team.AddTeamMember(ctx, userID1, userID2)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTeamUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyConnected
		default:
			return nil, fmt.Errorf("failed to add team member: %w", err)
		}
	}
	return view, nil
}

// ListTeamMembers lists the contacts of userID
func (s *TeamService) ListTeamMembers(ctx context.Context, userID uint64) ([]models.TeamMemberView, error) {
	views, err := s.team.ListTeamMembers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return views, nil
}
