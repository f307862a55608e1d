package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	t *testing.T

	create        func(ctx context.Context, user *model.User) error
	getByID       func(ctx context.Context, id string) (*model.User, error)
	getByEmail    func(ctx context.Context, email string) (*model.User, error)
	getByUsername func(ctx context.Context, username string) (*model.User, error)
	update        func(ctx context.Context, user *model.User) error
	delete        func(ctx context.Context, id string) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	if s.create == nil {
		s.t.Fatal("unexpected call: Create")
	}
	return s.create(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.getByID == nil {
		s.t.Fatal("unexpected call: GetByID")
	}
	return s.getByID(ctx, id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.getByEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByEmail(ctx, email)
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.getByUsername == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByUsername(ctx, username)
}

func (s *stubUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *model.User) error {
	if s.update == nil {
		s.t.Fatal("unexpected call: Update")
	}
	return s.update(ctx, user)
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	if s.delete == nil {
		s.t.Fatal("unexpected call: Delete")
	}
	return s.delete(ctx, id)
}

// stubRefreshRepo keeps tokens in memory and records deletions
type stubRefreshRepo struct {
	stored  []model.RefreshToken
	deleted []string
}

func (s *stubRefreshRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	s.stored = append(s.stored, *token)
	return nil
}

func (s *stubRefreshRepo) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	for i := range s.stored {
		if s.stored[i].Token == token {
			return &s.stored[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRefreshRepo) DeleteByToken(ctx context.Context, token string) error {
	s.deleted = append(s.deleted, token)
	return nil
}

func (s *stubRefreshRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	s.deleted = append(s.deleted, "user:"+userID.String())
	return nil
}

func (s *stubRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	return nil
}

func TestCreateUserEngineerWithSite(t *testing.T) {
	actor := uuid.New()
	siteID := uuid.New()

	var created *model.User
	userRepo := &stubUserRepo{
		t: t,
		create: func(ctx context.Context, user *model.User) error {
			user.ID = uuid.New()
			created = user
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}
	svc := NewUserService(
		userRepo,
		&stubRefreshRepo{},
		&stubSiteRepo{t: t, site: &model.Site{ID: siteID}},
		auditRepo,
	)

	resp, err := svc.CreateUser(context.Background(), actor.String(), CreateUserRequest{
		Username: "site.engineer",
		Email:    "engineer@example.com",
		Phone:    "9000000000",
		Password: "secret123",
		Role:     "engineer",
		SiteID:   siteID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	require.NotNil(t, created.SiteID)
	assert.Equal(t, siteID, *created.SiteID)
	// Stored password is a bcrypt hash, never the plaintext
	assert.NotEqual(t, "secret123", created.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))

	require.NotNil(t, resp.SiteID)
	assert.Equal(t, siteID.String(), *resp.SiteID)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateUser, auditRepo.entries[0].Action)
	assert.Equal(t, actor, *auditRepo.entries[0].UserID)
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	userRepo := &stubUserRepo{
		t: t,
		getByUsername: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{Username: username}, nil
		},
	}
	svc := NewUserService(userRepo, &stubRefreshRepo{}, nil, &stubAuditRepo{})

	_, err := svc.CreateUser(context.Background(), uuid.NewString(), CreateUserRequest{
		Username: "taken",
		Email:    "new@example.com",
		Phone:    "9000000000",
		Password: "secret123",
		Role:     "manager",
	})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "username", valErr.Field)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := &stubUserRepo{
		t: t,
		getByEmail: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: uuid.New(), Email: email, Password: string(hash), Role: "manager"}, nil
		},
	}
	refreshRepo := &stubRefreshRepo{}
	svc := NewUserService(userRepo, refreshRepo, nil, &stubAuditRepo{})

	_, err = svc.Login(context.Background(), LoginUserRequest{Email: "m@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, refreshRepo.stored)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := uuid.New()

	userRepo := &stubUserRepo{
		t: t,
		getByEmail: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: userID, Email: email, Password: string(hash), Role: "engineer"}, nil
		},
	}
	refreshRepo := &stubRefreshRepo{}
	svc := NewUserService(userRepo, refreshRepo, nil, &stubAuditRepo{})

	tokens, err := svc.Login(context.Background(), LoginUserRequest{Email: "e@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)
	require.Len(t, refreshRepo.stored, 1)
	assert.Equal(t, userID, refreshRepo.stored[0].UserID)
	assert.True(t, refreshRepo.stored[0].ExpiresAt.After(time.Now()))
}

func TestRefreshRotatesToken(t *testing.T) {
	userID := uuid.New()
	userRepo := &stubUserRepo{
		t: t,
		getByID: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: userID, Role: "manager"}, nil
		},
	}
	refreshRepo := &stubRefreshRepo{
		stored: []model.RefreshToken{{
			UserID:    userID,
			Token:     "old-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}},
	}
	svc := NewUserService(userRepo, refreshRepo, nil, &stubAuditRepo{})

	tokens, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)

	assert.NotEqual(t, "old-token", tokens.RefreshToken)
	// The presented token was consumed
	assert.Contains(t, refreshRepo.deleted, "old-token")
}

func TestRefreshExpiredTokenConsumedAndRejected(t *testing.T) {
	userRepo := &stubUserRepo{t: t}
	refreshRepo := &stubRefreshRepo{
		stored: []model.RefreshToken{{
			UserID:    uuid.New(),
			Token:     "stale-token",
			ExpiresAt: time.Now().Add(-time.Minute),
		}},
	}
	svc := NewUserService(userRepo, refreshRepo, nil, &stubAuditRepo{})

	_, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "stale-token"})
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	// Expired tokens are still deleted so they cannot be presented again
	assert.Contains(t, refreshRepo.deleted, "stale-token")
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	actor := uuid.New()
	userID := uuid.New()

	var deletedID string
	userRepo := &stubUserRepo{
		t: t,
		getByID: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: userID, Username: "leaver", Role: "engineer"}, nil
		},
		delete: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	refreshRepo := &stubRefreshRepo{}
	auditRepo := &stubAuditRepo{}
	svc := NewUserService(userRepo, refreshRepo, nil, auditRepo)

	err := svc.DeleteUser(context.Background(), actor.String(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, userID.String(), deletedID)
	assert.Contains(t, refreshRepo.deleted, "user:"+userID.String())
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionDeleteUser, auditRepo.entries[0].Action)
}
