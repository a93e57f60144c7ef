package services

import (
	"context"
	"errors"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// UserInput is the write representation of a user profile. Nil fields are
// left untouched by a partial update.
type UserInput struct {
	Username  *string      `json:"username" validate:"omitempty,max=50,username"`
	Email     *string      `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string      `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UserService manages user accounts. The collection is admin-only; every
// authenticated user may read and edit their own profile but not their role.
type UserService struct {
	userRepo  repositories.UserRepository
	validator *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validator: validation.New(),
	}
}

// ListUsers returns users whose username contains search.
func (s *UserService) ListUsers(ctx context.Context, req permissions.Request, search string, page repositories.Page) ([]models.User, int64, error) {
	if err := authorize(permissions.Users, req, nil); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, search, page)
}

// GetUser returns the user with the given username.
func (s *UserService) GetUser(ctx context.Context, req permissions.Request, username string) (*models.User, error) {
	if err := authorize(permissions.Users, req, nil); err != nil {
		return nil, err
	}
	return s.lookup(ctx, username)
}

func (s *UserService) lookup(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user %s", username)
	}
	return user, nil
}

// CreateUser adds an account. The user signs in through the confirmation
// code flow like anyone else.
func (s *UserService) CreateUser(ctx context.Context, req permissions.Request, in UserInput) (*models.User, error) {
	if err := authorize(permissions.Users, req, nil); err != nil {
		return nil, err
	}

	password, err := UnusablePassword()
	if err != nil {
		return nil, err
	}
	user := &models.User{Role: models.RoleUser, Password: password}
	if err := s.apply(ctx, user, in, false); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicateUser(err)
	}
	return user, nil
}

// UpdateUser edits any account, role included.
func (s *UserService) UpdateUser(ctx context.Context, req permissions.Request, username string, in UserInput, partial bool) (*models.User, error) {
	if err := authorize(permissions.Users, req, nil); err != nil {
		return nil, err
	}
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, in, partial)
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, req permissions.Request, username string) error {
	if err := authorize(permissions.Users, req, nil); err != nil {
		return err
	}
	return notFound(s.userRepo.Delete(ctx, username), "user %s", username)
}

// Me returns the caller's profile.
func (s *UserService) Me(ctx context.Context, req permissions.Request) (*models.User, error) {
	if err := authorize(permissions.OwnProfile, req, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, req.Caller.ID)
	if err != nil {
		return nil, notFound(err, "user %d", req.Caller.ID)
	}
	return user, nil
}

// UpdateMe partially edits the caller's profile. Any role in the input is
// replaced with the caller's stored role before saving.
func (s *UserService) UpdateMe(ctx context.Context, req permissions.Request, in UserInput) (*models.User, error) {
	user, err := s.Me(ctx, req)
	if err != nil {
		return nil, err
	}
	role := user.Role
	in.Role = &role
	return s.save(ctx, user, in, true)
}

func (s *UserService) save(ctx context.Context, user *models.User, in UserInput, partial bool) (*models.User, error) {
	if err := s.apply(ctx, user, in, partial); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, duplicateUser(notFound(err, "user %d", user.ID))
	}
	return user, nil
}

// apply validates in and copies it onto user.
func (s *UserService) apply(ctx context.Context, user *models.User, in UserInput, partial bool) error {
	errs := s.validator.Struct(in)
	if errs == nil {
		errs = validation.Errors{}
	}
	if !partial {
		if in.Username == nil {
			errs.Add("username", "This field is required.")
		}
		if in.Email == nil {
			errs.Add("email", "This field is required.")
		}
	}
	if len(errs) == 0 {
		if err := s.checkUnique(ctx, user, in, errs); err != nil {
			return err
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, user *models.User, in UserInput, errs validation.Errors) error {
	if in.Username != nil && *in.Username != user.Username {
		if _, err := s.userRepo.GetByUsername(ctx, *in.Username); err == nil {
			errs.Add("username", "A user with that username already exists.")
		} else if !errors.Is(err, repositories.ErrRecordNotFound) {
			return err
		}
	}
	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.userRepo.GetByEmail(ctx, *in.Email); err == nil {
			errs.Add("email", "A user with that email already exists.")
		} else if !errors.Is(err, repositories.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func duplicateUser(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return NewValidationError("username", "A user with that username or email already exists.")
	}
	return err
}
