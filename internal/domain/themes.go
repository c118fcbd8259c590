package domain

import "time"

// DefaultThemes returns the fixed theme catalogue. "Classic Blue" starts
// out active; every backend seeds this same set.
func DefaultThemes() []*ChatTheme {
	now := time.Now()
	return []*ChatTheme{
		{
			ID:                     1,
			Name:                   "Classic Blue",
			PrimaryColor:           "#3b82f6",
			SecondaryColor:         "#1e40af",
			BackgroundColor:        "#f8fafc",
			MessageBackgroundSelf:  "#3b82f6",
			MessageBackgroundOther: "#e2e8f0",
			TextColor:              "#1e293b",
			IsActive:               true,
			CreatedAt:              now,
		},
		{
			ID:                     2,
			Name:                   "Sunset Orange",
			PrimaryColor:           "#f59e0b",
			SecondaryColor:         "#d97706",
			BackgroundColor:        "#fef3c7",
			MessageBackgroundSelf:  "#f59e0b",
			MessageBackgroundOther: "#fed7aa",
			TextColor:              "#92400e",
			CreatedAt:              now,
		},
		{
			ID:                     3,
			Name:                   "Forest Green",
			PrimaryColor:           "#10b981",
			SecondaryColor:         "#059669",
			BackgroundColor:        "#ecfdf5",
			MessageBackgroundSelf:  "#10b981",
			MessageBackgroundOther: "#d1fae5",
			TextColor:              "#064e3b",
			CreatedAt:              now,
		},
		{
			ID:                     4,
			Name:                   "Purple Dreams",
			PrimaryColor:           "#8b5cf6",
			SecondaryColor:         "#7c3aed",
			BackgroundColor:        "#f3f4f6",
			MessageBackgroundSelf:  "#8b5cf6",
			MessageBackgroundOther: "#e5e7eb",
			TextColor:              "#374151",
			CreatedAt:              now,
		},
		{
			ID:                     5,
			Name:                   "Rose Gold",
			PrimaryColor:           "#f43f5e",
			SecondaryColor:         "#e11d48",
			BackgroundColor:        "#fdf2f8",
			MessageBackgroundSelf:  "#f43f5e",
			MessageBackgroundOther: "#fce7f3",
			TextColor:              "#881337",
			CreatedAt:              now,
		},
		{
			ID:                     6,
			Name:                   "Dark Mode",
			PrimaryColor:           "#6366f1",
			SecondaryColor:         "#4f46e5",
			BackgroundColor:        "#111827",
			MessageBackgroundSelf:  "#6366f1",
			MessageBackgroundOther: "#374151",
			TextColor:              "#f9fafb",
			CreatedAt:              now,
		},
	}
}
