package user

import (
	"context"
	"os"
	"time"

	"go-timesheet/internal/rbac"
	usererrors "go-timesheet/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp UserResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp UserResponse, err error)
	GetMe(ctx context.Context, userID string) (*UserResponse, error)
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	ListByCompany(ctx context.Context, companyID string) ([]UserResponse, error)
}

type service struct {
	repo Repository
	rbac rbac.Service
}

func NewService(repo Repository, rbac rbac.Service) Service {
	return &service{repo: repo, rbac: rbac}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, UserResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", "", UserResponse{}, usererrors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", UserResponse{}, usererrors.ErrInvalidCredentials
	}

	// warm the Casbin policy for this tenant
	if err := s.rbac.LoadCompanyPolicy(u.CompanyID.String()); err != nil {
		return "", "", UserResponse{}, err
	}

	accessToken, err := s.generateToken(u, time.Minute*15)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u, time.Hour*24*7)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapUser(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, UserResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, usererrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", UserResponse{}, usererrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", UserResponse{}, usererrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", UserResponse{}, usererrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(u, time.Minute*15)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrTokenGenerationFailed
	}

	newRefreshToken, err := s.generateToken(u, time.Hour*24*7)
	if err != nil {
		return "", "", UserResponse{}, usererrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapUser(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, usererrors.ErrUserNotFound
	}

	resp := mapUser(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}

	u := &User{
		ID:        uuid.New(),
		CompanyID: companyID,
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, usererrors.ErrUserAlreadyExists
	}

	if err := s.rbac.LoadCompanyPolicy(companyID.String()); err != nil {
		return UserResponse{}, err
	}

	return mapUser(u), nil
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]UserResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, usererrors.ErrInvalidCompanyID
	}

	users, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = mapUser(&users[i])
	}
	return resp, nil
}

func (s *service) generateToken(u *User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    u.ID.String(),
		"company_id": u.CompanyID.String(),
		"role":       u.Role,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapUser(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		CompanyID: u.CompanyID.String(),
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
