package services

import (
	"context"
	"strings"

	"narration-backend/internal/apperr"
	"narration-backend/internal/auth"
	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
)

type UserService struct {
	Repo *repositories.UserRepository
	JWT  *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, JWT: jwt}
}

// Signup creates an operator account and returns it with a fresh token
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, apperr.Validation("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = "operator"
	}
	if req.Role != "admin" && req.Role != "operator" {
		return nil, apperr.Validation("role must be admin or operator")
	}

	if existing, err := s.Repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("email %s is already registered", req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Persistence(err, "hash password")
	}

	u := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.JWT.GenerateToken(u)
	if err != nil {
		return nil, apperr.Persistence(err, "sign token")
	}
	return &models.LoginResponse{Token: token, User: u}, nil
}

// Login verifies credentials and issues a token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same message for unknown email and wrong password
		return nil, apperr.Validation("invalid email or password")
	}
	if !u.IsActive {
		return nil, apperr.Precondition("account is deactivated")
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return nil, apperr.Validation("invalid email or password")
	}

	token, err := s.JWT.GenerateToken(u)
	if err != nil {
		return nil, apperr.Persistence(err, "sign token")
	}
	return &models.LoginResponse{Token: token, User: u}, nil
}
