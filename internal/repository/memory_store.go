package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/taskassist-api/internal/models"
)

// MemoryStore keeps every record in process memory. Returned values are
// copies, so callers never alias stored state.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[uint64]models.User
	tasks    map[uint64]models.Task
	projects map[uint64]models.Project
	team     []models.TeamMember

	nextUserID    uint64
	nextTaskID    uint64
	nextProjectID uint64
	nextTeamID    uint64
}

// NewMemoryStore returns an empty store with IDs starting at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint64]models.User),
		tasks:    make(map[uint64]models.Task),
		projects: make(map[uint64]models.Project),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	hashed, err := HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: username %q", ErrDuplicate, user.Username)
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return fmt.Errorf("%w: email %q", ErrDuplicate, *user.Email)
		}
	}

	s.nextUserID++
	now := time.Now()
	user.ID = s.nextUserID
	user.Password = hashed
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id uint64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	needle := strings.ToLower(query)
	contains := func(v *string) bool {
		return v != nil && strings.Contains(strings.ToLower(*v), needle)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Username), needle) ||
			contains(user.Email) || contains(user.FirstName) || contains(user.LastName) {
			out := cloneUser(user)
			out.Password = ""
			users = append(users, out)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *MemoryStore) VerifyUser(_ context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if user.Username != username {
			continue
		}
		if !CheckPassword(user.Password, password) {
			return nil, ErrInvalidCredentials
		}
		now := time.Now()
		user.LastLogin = &now
		s.users[id] = user
		out := cloneUser(user)
		return &out, nil
	}
	return nil, ErrInvalidCredentials
}

func (s *MemoryStore) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	now := time.Now()
	task.ID = s.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now

	s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (s *MemoryStore) FindTaskByID(_ context.Context, id uint64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (s *MemoryStore) ListTasks(_ context.Context, query TaskQuery) ([]models.Task, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for _, task := range s.tasks {
		if query.Matches(task) {
			tasks = append(tasks, cloneTask(task))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})

	total := int64(len(tasks))
	if query.Limit > 0 {
		start := min(query.Offset, len(tasks))
		end := min(start+query.Limit, len(tasks))
		tasks = tasks[start:end]
	}
	return tasks, total, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id uint64, mutate func(*models.Task) error) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	task := cloneTask(stored)
	if err := mutate(&task); err != nil {
		return nil, err
	}
	task.ID = id
	task.CreatedAt = stored.CreatedAt
	task.UpdatedAt = time.Now()

	s.tasks[id] = cloneTask(task)
	return &task, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *MemoryStore) TaskSummary(_ context.Context, participant *uint64) (models.TaskSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := TaskQuery{Participant: participant}
	var total, completed int64
	for _, task := range s.tasks {
		if !query.Matches(task) {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
	}
	return models.NewTaskSummary(total, completed), nil
}

func (s *MemoryStore) ListProjects(_ context.Context, q ProjectQuery) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var contacts map[uint64]bool
	if q.AccessibleTo != nil {
		contacts = make(map[uint64]bool)
		for _, e := range s.team {
			if e.UserID1 == *q.AccessibleTo {
				contacts[e.UserID2] = true
			}
		}
	}

	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if q.Owner != nil && p.UserID != *q.Owner {
			continue
		}
		if q.AccessibleTo != nil && p.UserID != *q.AccessibleTo && !(p.IsPublic && contacts[p.UserID]) {
			continue
		}
		projects = append(projects, cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *MemoryStore) FindProjectByID(_ context.Context, id uint64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneProject(project)
	return &out, nil
}

func (s *MemoryStore) CreateProject(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProjectID++
	now := time.Now()
	project.ID = s.nextProjectID
	project.CreatedAt = now
	project.UpdatedAt = now

	s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (s *MemoryStore) AddTeamMember(_ context.Context, userID1, userID2 uint64) (*models.TeamMemberView, error) {
	if userID1 == userID2 {
		return nil, fmt.Errorf("%w: a user cannot be their own team member", ErrDuplicate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID1]; !ok {
		return nil, fmt.Errorf("user %d: %w", userID1, ErrNotFound)
	}
	contact, ok := s.users[userID2]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID2, ErrNotFound)
	}

	for _, e := range s.team {
		if (e.UserID1 == userID1 && e.UserID2 == userID2) || (e.UserID1 == userID2 && e.UserID2 == userID1) {
			return nil, fmt.Errorf("%w: users %d and %d are already connected", ErrDuplicate, userID1, userID2)
		}
	}

	now := time.Now()
	s.nextTeamID++
	forward := models.TeamMember{ID: s.nextTeamID, UserID1: userID1, UserID2: userID2, CreatedAt: now}
	s.nextTeamID++
	backward := models.TeamMember{ID: s.nextTeamID, UserID1: userID2, UserID2: userID1, CreatedAt: now}
	s.team = append(s.team, forward, backward)

	user := cloneUser(contact)
	user.Password = ""
	return &models.TeamMemberView{Connection: forward, User: user}, nil
}

func (s *MemoryStore) ListTeamMembers(_ context.Context, userID uint64) ([]models.TeamMemberView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := []models.TeamMemberView{}
	for _, e := range s.team {
		if e.UserID1 != userID {
			continue
		}
		contact, ok := s.users[e.UserID2]
		if !ok {
			continue
		}
		user := cloneUser(contact)
		user.Password = ""
		views = append(views, models.TeamMemberView{Connection: e, User: user})
	}
	return views, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u models.User) models.User {
	u.Email = clonePtr(u.Email)
	u.FirstName = clonePtr(u.FirstName)
	u.LastName = clonePtr(u.LastName)
	u.ProfileImageURL = clonePtr(u.ProfileImageURL)
	u.LastLogin = clonePtr(u.LastLogin)
	return u
}

func cloneTask(t models.Task) models.Task {
	t.Description = clonePtr(t.Description)
	t.ProjectID = clonePtr(t.ProjectID)
	t.DueDate = clonePtr(t.DueDate)
	t.Priority = clonePtr(t.Priority)
	t.AssignedTo = clonePtr(t.AssignedTo)
	t.AssignedBy = clonePtr(t.AssignedBy)
	t.TeamID = clonePtr(t.TeamID)
	return t
}

func cloneProject(p models.Project) models.Project {
	p.TeamID = clonePtr(p.TeamID)
	return p
}
