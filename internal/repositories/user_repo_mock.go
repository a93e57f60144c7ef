package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"yamdb/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// Len returns the number of stored users.
func (r *MockUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Create adds a new user, enforcing username and email uniqueness.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("failed to create user %s: %w", user.Username, ErrDuplicate)
		}
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username "+username)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email "+email)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrRecordNotFound)
	}
	return &user, nil
}

func (r *MockUserRepository) find(match func(models.User) bool, what string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", what, ErrRecordNotFound)
}

// List returns users ordered by username.
func (r *MockUserRepository) List(_ context.Context, search string, page Page) ([]models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	count := int64(len(users))
	if page.Offset > len(users) {
		page.Offset = len(users)
	}
	users = users[page.Offset:]
	if page.Limit > 0 && page.Limit < len(users) {
		users = users[:page.Limit]
	}
	return users, count, nil
}

// Update replaces the profile fields of an existing user.
func (r *MockUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %d not found for update: %w", user.ID, ErrRecordNotFound)
	}
	for id, u := range r.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return fmt.Errorf("failed to update user %s: %w", user.Username, ErrDuplicate)
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Bio = user.Bio
	stored.Role = user.Role
	r.users[user.ID] = stored
	return nil
}

// SetConfirmationCode overwrites the stored code of a user.
func (r *MockUserRepository) SetConfirmationCode(_ context.Context, id uint, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %d not found for code update: %w", id, ErrRecordNotFound)
	}
	user.ConfirmationCode = &code
	r.users[id] = user
	return nil
}

// Delete removes a user by username.
func (r *MockUserRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.Username == username {
			delete(r.users, id)
			return nil
		}
	}
	return fmt.Errorf("user with username %s not found for deletion: %w", username, ErrRecordNotFound)
}
