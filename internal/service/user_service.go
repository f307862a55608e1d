package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	SiteID   string `json:"site_id"` // Site the engineer is posted at
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	SiteID   string `json:"site_id"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	SiteID    *string   `json:"site_id"`
	SiteName  string    `json:"site_name,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

type userService struct {
	repo        repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	siteRepo    repository.SiteRepository
	auditRepo   repository.AuditRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	siteRepo repository.SiteRepository,
	auditRepo repository.AuditRepository,
) UserService {
	return &userService{
		repo:        repo,
		refreshRepo: refreshRepo,
		siteRepo:    siteRepo,
		auditRepo:   auditRepo,
	}
}

func validateRole(role string) bool {
	return role == "admin" || role == "manager" || role == "engineer"
}

func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.SiteID != nil {
		siteID := user.SiteID.String()
		resp.SiteID = &siteID
	}
	if user.Site != nil {
		resp.SiteName = user.Site.Name
	}
	return resp
}

// resolveSiteID parses and verifies an optional site reference
func (s *userService) resolveSiteID(ctx context.Context, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	siteID, err := uuid.Parse(raw)
	if err != nil {
		return nil, &ValidationError{Field: "site_id", Message: "invalid uuid"}
	}
	if _, err := s.siteRepo.FindByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "site_id", Message: "site not found"}
		}
		return nil, fmt.Errorf("failed to fetch site: %w", err)
	}
	return &siteID, nil
}

func (s *userService) logUserAction(ctx context.Context, actorID, action string, user *model.User) {
	var actor *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		actor = &parsed
	}
	details, _ := json.Marshal(map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	// Account changes are logged best-effort; the change itself already
	// committed.
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityID:   user.ID.String(),
		EntityName: user.Username,
		Details:    string(details),
	})
}

func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error) {
	if !validateRole(req.Role) {
		return nil, &ValidationError{Field: "role", Message: "must be admin, manager, or engineer"}
	}

	siteID, err := s.resolveSiteID(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, &ValidationError{Field: "username", Message: "already exists"}
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, &ValidationError{Field: "email", Message: "already exists"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
		SiteID:   siteID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logUserAction(ctx, actorID, model.ActionCreateUser, user)

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.refreshRepo.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to fetch refresh token: %w", err)
	}

	// Rotation: a presented token is consumed whether or not it is still
	// valid, so a leaked token cannot be replayed.
	if err := s.refreshRepo.DeleteByToken(ctx, stored.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  now.Add(accessTokenTTL).Unix(),
		"iat":  now.Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshToken := hex.EncodeToString(raw)

	err = s.refreshRepo.Create(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(refreshTokenTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if req.Role != "" {
		if !validateRole(req.Role) {
			return nil, &ValidationError{Field: "role", Message: "must be admin, manager, or engineer"}
		}
		user.Role = req.Role
	}

	if req.SiteID != "" {
		siteID, siteErr := s.resolveSiteID(ctx, req.SiteID)
		if siteErr != nil {
			return nil, siteErr
		}
		user.SiteID = siteID
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, &ValidationError{Field: "username", Message: "already exists"}
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, &ValidationError{Field: "email", Message: "already exists"}
		}
		user.Email = req.Email
	}

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logUserAction(ctx, actorID, model.ActionUpdateUser, user)

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	// Revoke every session of the deleted account
	if err := s.refreshRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	s.logUserAction(ctx, actorID, model.ActionDeleteUser, user)

	return nil
}
