package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/auth"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
	"golang.org/x/crypto/argon2"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrUserNotFound       = errors.New("user not found")
)

// Tokens issued by login carry a fixed 2-hour expiry; the configurable TTL
// applies to every other issuance path.
const loginTokenTTL = 2 * time.Hour

type AuthService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	jwtIssuer   string
	jwtAudience string
	accessTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, secret, issuer, audience string, accessTokenMinutes int) *AuthService {
	if accessTokenMinutes <= 0 {
		accessTokenMinutes = 30
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   secret,
		jwtIssuer:   issuer,
		jwtAudience: audience,
		accessTTL:   time.Duration(accessTokenMinutes) * time.Minute,
	}
}

type RegisterOwnerInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Historical payloads may include a pet object. It is accepted and
	// ignored: admins create and assign pets separately.
	Pet json.RawMessage `json:"pet,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Role     string    `json:"role"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        UserSummary `json:"user"`
}

func (s *AuthService) RegisterOwner(ctx context.Context, input RegisterOwnerInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Advisory pre-check for a friendly conflict; the unique constraint in
	// the store is the source of truth under concurrent registration.
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         email,
		FullName:      strings.TrimSpace(input.FullName),
		PasswordHash:  hash,
		AccountStatus: domain.StatusActive,
		Roles:         []domain.Role{domain.RoleOwner},
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Status is checked before the password so a deactivated account gets
	// "inactive" even with correct credentials.
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(user, loginTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User: UserSummary{
			ID:       user.ID,
			Role:     string(user.PrimaryRole()),
			FullName: user.FullName,
			Email:    user.Email,
		},
	}, nil
}

// CurrentUser resolves the authenticated principal against the store.
func (s *AuthService) CurrentUser(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}
	return auth.NewAccessToken(s.jwtSecret, s.jwtIssuer, s.jwtAudience, ttl, user.ID.String(), auth.Claims{
		FullName: user.FullName,
		Email:    user.Email,
		Roles:    roles,
	})
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
