package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

// ValidationError carries the problem-details title/detail for business
// rule failures that need a specific message, like the self-deactivation
// guard.
type ValidationError struct {
	Title  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateVetInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VetListItem struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

type UserListItem struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	AccountStatus string    `json:"accountStatus"`
	IsActive      bool      `json:"isActive"`
	Roles         []string  `json:"roles"`
}

type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func (s *UserService) CreateVet(ctx context.Context, input CreateVetInput) (*domain.User, error) {
	return s.CreateUser(ctx, input.Email, input.Password, input.FullName, domain.RoleVet)
}

// CreateUser backs both admin vet creation and the startup admin seed.
func (s *UserService) CreateUser(ctx context.Context, email, password, fullName string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         email,
		FullName:      strings.TrimSpace(fullName),
		PasswordHash:  hash,
		AccountStatus: domain.StatusActive,
		Roles:         []domain.Role{role},
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

func (s *UserService) ListVets(ctx context.Context, search string, page, pageSize int) (*Page[VetListItem], error) {
	page, pageSize = clampPaging(page, pageSize)

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Role:   domain.RoleVet,
		Search: strings.TrimSpace(search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]VetListItem, 0, len(users))
	for _, u := range users {
		items = append(items, VetListItem{ID: u.ID, FullName: u.FullName, Email: u.Email})
	}
	return &Page[VetListItem]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *UserService) GetVet(ctx context.Context, id uuid.UUID) (*VetListItem, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasRole(domain.RoleVet) {
		return nil, ErrUserNotFound
	}
	return &VetListItem{ID: user.ID, FullName: user.FullName, Email: user.Email}, nil
}

func (s *UserService) ListUsers(ctx context.Context, roleFilter, search string, page, pageSize int) (*Page[UserListItem], error) {
	page, pageSize = clampPaging(page, pageSize)

	var role domain.Role
	if strings.TrimSpace(roleFilter) != "" {
		parsed, ok := domain.ParseRole(roleFilter)
		if !ok {
			// Unknown role names match nobody, mirroring a join against a
			// role registry that has no such row.
			return &Page[UserListItem]{Items: []UserListItem{}, Total: 0, Page: page, PageSize: pageSize}, nil
		}
		role = parsed
	}

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Role:   role,
		Search: strings.TrimSpace(search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, toUserListItem(&u))
	}
	return &Page[UserListItem]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

type UpdateUserInput struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	AccountStatus string `json:"accountStatus"`
}

// UpdateUser applies the optional fields independently; blank fields are
// left untouched. callerID is the authenticated admin, needed for the
// self-deactivation guard.
func (s *UserService) UpdateUser(ctx context.Context, callerID, targetID uuid.UUID, input UpdateUserInput) (*UserListItem, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if fn := strings.TrimSpace(input.FullName); fn != "" {
		if len(fn) < 2 || len(fn) > 100 {
			return nil, &ValidationError{
				Title:  "Validation failed",
				Detail: "Full name must be between 2 and 100 characters.",
			}
		}
		user.FullName = fn
	}

	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && !strings.EqualFold(user.Email, email) {
		other, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, ErrEmailInUse
		}
		user.Email = email
	}

	if raw := strings.TrimSpace(input.AccountStatus); raw != "" {
		status, ok := domain.ParseAccountStatus(raw)
		if !ok {
			return nil, &ValidationError{
				Title:  "Validation failed",
				Detail: "AccountStatus must be 'Active' or 'Inactive'.",
			}
		}
		// An admin can never lock themselves out through this endpoint.
		if callerID == user.ID && status != domain.StatusActive {
			return nil, &ValidationError{
				Title:  "Cannot deactivate yourself",
				Detail: "An admin cannot set their own account to Inactive.",
			}
		}
		user.AccountStatus = status
	}

	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	item := toUserListItem(user)
	return &item, nil
}

type UpdateProfileInput struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type ProfileResult struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
}

// UpdateProfile lets any authenticated user rename themselves. The phone
// number is accepted and echoed but not yet persisted; the users table has
// no column for it.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.FullName = strings.TrimSpace(input.FullName)
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return &ProfileResult{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: input.PhoneNumber,
		Role:        string(user.PrimaryRole()),
	}, nil
}

func toUserListItem(u *domain.User) UserListItem {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	sort.Strings(roles)
	return UserListItem{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		AccountStatus: string(u.AccountStatus),
		IsActive:      u.IsActive(),
		Roles:         roles,
	}
}

func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
