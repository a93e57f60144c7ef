package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/metrics"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is used when no token lifetime is configured.
const DefaultTokenTTL = 24 * time.Hour

// SignupRequest is the identity a confirmation code is requested for.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// TokenRequest exchanges a confirmation code for an access token.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=50"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=20"`
}

// AuthService handles signup, confirmation codes and access tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	issuer    *CodeIssuer
	validator *validation.Validator
	jwtSecret []byte
	tokenTTL  time.Duration
	metrics   *metrics.Metrics
	logger    logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, issuer *CodeIssuer, jwtSecret string, tokenTTL time.Duration, m *metrics.Metrics, logger logrus.FieldLogger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		issuer:    issuer,
		validator: validation.New(),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		metrics:   m,
		logger:    logger,
	}
}

// Signup finds or creates the user named in req and issues a fresh code.
// Re-signing up with the same username and email reuses the account; a
// username or email already bound to a different partner is rejected.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if user.Email != req.Email {
			return nil, NewValidationError("username", "A user with that username already exists.")
		}
	case errors.Is(err, repositories.ErrRecordNotFound):
		user, err = s.createUser(ctx, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.issuer.Issue(ctx, user.Username); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, req SignupRequest) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, NewValidationError("email", "A user with that email already exists.")
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	password, err := UnusablePassword()
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
		Password: password,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("username", "A user with that username or email already exists.")
		}
		return nil, err
	}
	s.logger.WithField("username", user.Username).Info("User registered")
	return user, nil
}

// UnusablePassword returns a value no password can ever match: the bcrypt
// hash of a throwaway secret behind a "!" marker, which bcrypt refuses to parse.
func UnusablePassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return "!" + string(hash), nil
}

// Resend issues a new code to an existing user.
func (s *AuthService) Resend(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user %s", username)
	}
	if err := s.issuer.Issue(ctx, user.Username); err != nil {
		return nil, err
	}
	return user, nil
}

// ObtainToken returns an access token if the code matches the one currently
// stored for the user. An unknown username is ErrNotFound, not a credentials
// failure. The code stays valid until the next signup overwrites it.
func (s *AuthService) ObtainToken(ctx context.Context, req TokenRequest) (string, error) {
	if err := validate(s.validator, req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		s.observe("unknown_user")
		return "", notFound(err, "user %s", req.Username)
	}
	if user.ConfirmationCode == nil || *user.ConfirmationCode != req.ConfirmationCode {
		s.observe("invalid_code")
		return "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}
	s.observe("issued")
	return token, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": "access",
		"jti":        uuid.NewString(),
		"user_id":    user.ID,
		"username":   user.Username,
		"role":       string(user.Role),
		"exp":        now.Add(s.tokenTTL).Unix(),
		"iat":        now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims["token_type"] != "access" {
		return nil, fmt.Errorf("invalid token: not an access token")
	}
	return claims, nil
}

// Authenticate resolves the user a token was minted for. The user is loaded
// fresh so role changes apply to tokens that are already out.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("%w: invalid token: missing user_id", ErrUnauthenticated)
	}
	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.TokensIssuedTotal.WithLabelValues(outcome).Inc()
	}
}
