package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

const (
	minPasswordLength = 6  // characters
	maxPasswordBytes  = 72 // bcrypt input limit
)

type AuthService struct {
	Users  repositories.UserRepository
	Tokens *TokenManager
}

func NewAuthService(users repositories.UserRepository, tokens *TokenManager) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Register creates an account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", validationError("Name, email, and password are required")
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	user := models.User{Name: name, Email: email, Password: hashed}
	if err := s.Users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", conflictError("User already exists with this email", err)
		}
		return "", internalError("Database insert failed", err)
	}

	return s.issue(user)
}

// CheckPassword enforces the password policy for new accounts.
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return validationError("Password must be at least 6 characters long")
	}
	if len(password) > maxPasswordBytes {
		return validationError("Password must be at most 72 bytes")
	}
	return nil
}

// HashPassword checks the policy and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", internalError("Failed to hash password", err)
	}
	return string(hashed), nil
}

// Login verifies credentials. Every failure is reported as the same AuthError.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", authError("Invalid credentials")
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		return "", authError("Invalid credentials")
	default:
		return "", internalError("Database error", err)
	}

	if user.Password == "" {
		return "", authError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", authError("Invalid credentials")
	}

	return s.issue(user)
}

// SignInExternal finds or creates the account for an identity verified elsewhere
// (Google). Such accounts have no password hash and cannot use Login.
func (s *AuthService) SignInExternal(ctx context.Context, name, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", validationError("Identity provider returned no email")
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		if strings.TrimSpace(name) == "" {
			name = email
		}
		user = models.User{Name: name, Email: email}
		err = s.Users.CreateUser(ctx, &user)
		if errors.Is(err, repositories.ErrDuplicate) {
			user, err = s.Users.GetUserByEmail(ctx, email)
		}
	}
	if err != nil {
		return "", internalError("Database error", err)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user models.User) (string, error) {
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return "", internalError("Failed to create token", err)
	}
	return token, nil
}
