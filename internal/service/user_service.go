package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

// UserResponse is a user as exposed over the API: every field except the
// password.
type UserResponse struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Avatar       *string    `json:"avatar"`
	Bio          *string    `json:"bio"`
	Location     *string    `json:"location"`
	Website      *string    `json:"website"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	IsOnline     bool       `json:"isOnline"`
	LastActivity *time.Time `json:"lastActivity"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func sanitizeUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		Location:     u.Location,
		Website:      u.Website,
		DateOfBirth:  u.DateOfBirth,
		IsOnline:     u.IsOnline,
		LastActivity: u.LastActivity,
		CreatedAt:    u.CreatedAt,
	}
}

func sanitizeUsers(users []*domain.User) []*UserResponse {
	res := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, sanitizeUser(u))
	}
	return res
}

// UserService provides profile, activity, and aggregate user operations.
type UserService struct {
	storage domain.Storage
}

func NewUserService(storage domain.Storage) *UserService {
	return &UserService{storage: storage}
}

// GetProfile returns the sanitized user or (nil, nil) when absent.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return sanitizeUser(user), nil
}

// UpdateProfile applies a partial update. Returns (nil, nil) when the user
// does not exist; ErrAvatarTooLarge passes through from the store.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, updates domain.ProfileUpdate) (*UserResponse, error) {
	user, err := s.storage.UpdateUserProfile(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Heartbeat records activity for the user and marks them online. Called
// periodically and on interaction events by the client.
func (s *UserService) Heartbeat(ctx context.Context, userID int64) error {
	return s.storage.UpdateUserActivity(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.storage.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return sanitizeUsers(users), nil
}

func (s *UserService) ListOnline(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.storage.GetOnlineUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list online users: %w", err)
	}
	return sanitizeUsers(users), nil
}

// ActiveCount counts users seen within the activity window; users with no
// recorded activity count as active.
func (s *UserService) ActiveCount(ctx context.Context) (int, error) {
	return s.storage.GetUsersCount(ctx)
}

func (s *UserService) TotalCount(ctx context.Context) (int, error) {
	return s.storage.GetTotalUsersCount(ctx)
}

func (s *UserService) MessageCount(ctx context.Context, userID int64) (int, error) {
	return s.storage.GetUserMessageCount(ctx, userID)
}
