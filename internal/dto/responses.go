package dto

import (
	"time"

	"github.com/yukikurage/taskassist-api/internal/models"
)

// UserDTO is the public profile of a user. It has no password field.
type UserDTO struct {
	ID              uint64     `json:"id"`
	Username        string     `json:"username"`
	Email           *string    `json:"email"`
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Role            string     `json:"role"`
	ProfileImageURL *string    `json:"profileImageUrl"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	LastLogin       *time.Time `json:"lastLogin"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// TaskDTO is a task, optionally annotated with its relation to the user a
// listing was requested for.
type TaskDTO struct {
	models.Task
	Relation *models.TaskRelation `json:"relation,omitempty"`
}

// TeamMemberDTO pairs a connection with the contact's public profile.
type TeamMemberDTO struct {
	Connection models.TeamMember `json:"connection"`
	User       UserDTO           `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		ProfileImageURL: user.ProfileImageURL,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		LastLogin:       user.LastLogin,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToTaskDTOs converts tasks, attaching each task's relation to viewer when
// viewer is set.
func ToTaskDTOs(tasks []models.Task, viewer *uint64) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = TaskDTO{Task: t}
		if viewer != nil {
			rel := t.RelationTo(*viewer)
			out[i].Relation = &rel
		}
	}
	return out
}

func ToTeamMemberDTO(view models.TeamMemberView) TeamMemberDTO {
	return TeamMemberDTO{
		Connection: view.Connection,
		User:       ToUserDTO(view.User),
	}
}

func ToTeamMemberDTOs(views []models.TeamMemberView) []TeamMemberDTO {
	out := make([]TeamMemberDTO, len(views))
	for i, v := range views {
		out[i] = ToTeamMemberDTO(v)
	}
	return out
}
