package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/auth"
	"pdv-backend/internal/models"
	"pdv-backend/internal/repositories"
)

const msgInvalidCredentials = "Identifiants invalides"

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Login authenticates a user and returns a JWT token. Unknown users and wrong
// passwords get the same answer.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperr.Validation("username", "Nom d'utilisateur et mot de passe requis")
	}

	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
