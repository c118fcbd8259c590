package service

import (
	"context"
	"fmt"

	"github.com/fish11112222/naha2/internal/domain"
)

// ThemeState is the theme API response shape: the process-wide active
// palette plus the full catalogue.
type ThemeState struct {
	CurrentTheme    *domain.ChatTheme   `json:"currentTheme"`
	AvailableThemes []*domain.ChatTheme `json:"availableThemes"`
}

// ThemeService manages the global chat theme. The active theme is shared by
// all participants; there is no per-user theme state.
type ThemeService struct {
	storage domain.Storage
}

func NewThemeService(storage domain.Storage) *ThemeService {
	return &ThemeService{storage: storage}
}

func (s *ThemeService) Get(ctx context.Context) (*ThemeState, error) {
	current, err := s.storage.GetActiveTheme(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active theme: %w", err)
	}
	available, err := s.storage.GetAvailableThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("get themes: %w", err)
	}
	return &ThemeState{CurrentTheme: current, AvailableThemes: available}, nil
}

// Set switches the global theme. domain.ErrNotFound passes through when the
// id isn't in the catalogue; the active theme stays unchanged in that case.
func (s *ThemeService) Set(ctx context.Context, themeID int64) (*ThemeState, error) {
	if _, err := s.storage.SetActiveTheme(ctx, themeID); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}
