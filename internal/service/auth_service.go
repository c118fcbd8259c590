package service

import (
	"context"
	"fmt"

	"github.com/fish11112222/naha2/internal/domain"
)

// AuthService handles signup and signin. There is no session state: signin
// simply returns the sanitized user and later requests identify themselves
// by userId.
type AuthService struct {
	storage domain.Storage
}

func NewAuthService(storage domain.Storage) *AuthService {
	return &AuthService{storage: storage}
}

func (s *AuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*UserResponse, error) {
	user, err := s.storage.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// SignIn authenticates by email and password. Unknown email and wrong
// password both surface as ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, in domain.SignInInput) (*UserResponse, error) {
	user, err := s.storage.AuthenticateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return sanitizeUser(user), nil
}
