package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"github.com/yukikurage/taskassist-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = apierrors.New(apierrors.ErrConflict, "Username already exists")
	ErrAccountTaken       = apierrors.New(apierrors.ErrConflict, "Username or email already registered")
	ErrInvalidCredentials = apierrors.New(apierrors.ErrAuthentication, "Invalid username or password")
	ErrInvalidToken       = apierrors.New(apierrors.ErrAuthentication, "Invalid or expired token")
	ErrUserNotFound       = apierrors.New(apierrors.ErrNotFound, "User not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username  string
	Password  string
	Email     *string
	FirstName *string
	LastName  *string
}

// Register creates a user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, input SignupInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)

	if _, err := s.users.FindUserByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	user := &models.User{
		Username:  username,
		Password:  input.Password,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrAccountTaken
		}
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", apierrors.NewValidationError("password", "must be at most 72 bytes")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.VerifyUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to verify user: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to the user it asserts. A valid
// token for a user that no longer exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	userID, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token user: %w", err)
	}
	return user, nil
}
