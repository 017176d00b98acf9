package user_test

import (
	"context"
	"errors"
	"testing"

	"go-timesheet/internal/domain"
	"go-timesheet/internal/user"
	usererrors "go-timesheet/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	createFn        func(ctx context.Context, u *user.User) error
	getByEmailFn    func(ctx context.Context, email string) (*user.User, error)
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*user.User, error)
	listByCompanyFn func(ctx context.Context, companyID string) ([]user.User, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepository) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	if f.listByCompanyFn != nil {
		return f.listByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

type fakeRBACService struct {
	loadedCompanies []string
	loadErr         error
}

func (f *fakeRBACService) LoadCompanyPolicy(companyID string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loadedCompanies = append(f.loadedCompanies, companyID)
	return nil
}

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return true, nil
}

func TestUserService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	password := "password123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	companyID := uuid.New()
	existing := &user.User{
		ID:        uuid.New(),
		CompanyID: companyID,
		FullName:  "Dana Reyes",
		Email:     "dana@example.com",
		Password:  string(hashed),
		Role:      user.RoleEmployee,
		IsActive:  true,
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, existing.Email, email)
				return existing, nil
			},
		}
		rbacSvc := &fakeRBACService{}
		svc := user.NewService(repo, rbacSvc)

		access, refresh, resp, err := svc.Login(ctx, existing.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, existing.Email, resp.Email)
		assert.Equal(t, companyID.String(), resp.CompanyID)
		assert.Equal(t, []string{companyID.String()}, rbacSvc.loadedCompanies)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return existing, nil
			},
		}
		svc := user.NewService(repo, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, existing.Email, "wrongpass")

		assert.ErrorIs(t, err, usererrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, "nobody@example.com", password)

		assert.ErrorIs(t, err, usererrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive account", func(t *testing.T) {
		inactive := *existing
		inactive.IsActive = false
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &inactive, nil
			},
		}
		svc := user.NewService(repo, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, existing.Email, password)

		assert.ErrorIs(t, err, usererrors.ErrUserInactive)
	})
}

func TestUserService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success defaults role to employee", func(t *testing.T) {
		var created *user.User
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				created = u
				return nil
			},
		}
		svc := user.NewService(repo, &fakeRBACService{})

		resp, err := svc.Register(ctx, user.RegisterRequest{
			CompanyID: companyID.String(),
			FullName:  "Priya Nair",
			Email:     "priya@example.com",
			Password:  "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, user.RoleEmployee, resp.Role)
		assert.True(t, resp.IsActive)
		assert.NotNil(t, created)
		assert.NotEqual(t, "password123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				return errors.New("duplicate key value violates unique constraint")
			},
		}
		svc := user.NewService(repo, &fakeRBACService{})

		_, err := svc.Register(ctx, user.RegisterRequest{
			CompanyID: companyID.String(),
			FullName:  "Priya Nair",
			Email:     "priya@example.com",
			Password:  "password123",
		})

		assert.ErrorIs(t, err, usererrors.ErrUserAlreadyExists)
	})

	t.Run("negative bad company id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeRBACService{})

		_, err := svc.Register(ctx, user.RegisterRequest{
			CompanyID: "not-a-uuid",
			FullName:  "Priya Nair",
			Email:     "priya@example.com",
			Password:  "password123",
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidCompanyID)
	})
}

func TestUserService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	existing := &user.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		FullName:  "Dana Reyes",
		Email:     "dana@example.com",
		Role:      user.RoleLead,
		IsActive:  true,
	}

	t.Run("success round trip", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return existing, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				assert.Equal(t, existing.ID, id)
				return existing, nil
			},
		}
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		existing.Password = string(hashed)
		svc := user.NewService(repo, &fakeRBACService{})

		_, refresh, _, err := svc.Login(ctx, existing.Email, "password123")
		assert.NoError(t, err)

		access, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, existing.Email, resp.Email)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeRBACService{})

		_, _, _, err := svc.RefreshToken(ctx, "not.a.token")

		assert.ErrorIs(t, err, usererrors.ErrInvalidRefreshToken)
	})
}

func TestUserService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("negative invalid id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeRBACService{})

		_, err := svc.GetMe(ctx, "nope")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeUserRepository{
			getByIDFn: func(ctx context.Context, target uuid.UUID) (*user.User, error) {
				return &user.User{ID: target, CompanyID: uuid.New(), Email: "me@example.com", IsActive: true}, nil
			},
		}
		svc := user.NewService(repo, &fakeRBACService{})

		resp, err := svc.GetMe(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})
}
