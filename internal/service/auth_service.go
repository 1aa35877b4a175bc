package service

import (
	"context"
	"fmt"

	"billing/internal/middleware"
	"billing/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, fmt.Errorf("invalid username or password")
	}

	token, err := middleware.IssueToken(user.ID.String(), user.Username, user.Role)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return LoginResponse{AccessToken: token, Username: user.Username, Role: user.Role}, nil
}
