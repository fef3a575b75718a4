package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		// Same error as a wrong password so login does not leak which emails exist.
		return nil, "", "", ErrCredentialInvalid
	}
	if err != nil {
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrCredentialInvalid
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) VerifyCredential(ctx context.Context, userID int32, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCredentialInvalid
	}
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrCredentialInvalid
	}
	return nil
}
