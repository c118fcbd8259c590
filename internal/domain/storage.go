package domain

import (
	"context"
	"time"
)

// ActivityWindow is the trailing window within which a user counts as
// active. A user with no recorded activity also counts as active.
const ActivityWindow = 5 * time.Minute

// Storage is the single persistence contract of the application. One
// implementation is selected at startup (memory, sqlite, or postgres) and
// shared by every handler; there is no per-request branching between
// backends.
//
// Lookup methods return (nil, nil) when the record does not exist. Mutation
// methods that gate on ownership return (nil, nil) or (false, nil) on a
// missing record or an ownership mismatch so callers can translate to 403
// or 404 themselves.
type Storage interface {
	// User operations.
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, in SignUpInput) (*User, error)
	AuthenticateUser(ctx context.Context, in SignInInput) (*User, error)
	UpdateUserProfile(ctx context.Context, userID int64, updates ProfileUpdate) (*User, error)
	UpdateUserActivity(ctx context.Context, userID int64) error
	GetUsersCount(ctx context.Context) (int, error)
	GetTotalUsersCount(ctx context.Context) (int, error)
	GetOnlineUsers(ctx context.Context) ([]*User, error)
	GetUserMessageCount(ctx context.Context, userID int64) (int, error)

	// Message operations.
	GetMessages(ctx context.Context) ([]*Message, error)
	GetMessageByID(ctx context.Context, id int64) (*Message, error)
	CreateMessage(ctx context.Context, in MessageInput) (*Message, error)
	UpdateMessage(ctx context.Context, id, userID int64, content string) (*Message, error)
	DeleteMessage(ctx context.Context, id, userID int64) (bool, error)

	// Theme operations.
	GetActiveTheme(ctx context.Context) (*ChatTheme, error)
	GetAvailableThemes(ctx context.Context) ([]*ChatTheme, error)
	SetActiveTheme(ctx context.Context, themeID int64) (*ChatTheme, error)

	Close() error
}

// UserIsActive reports whether a user counts as active at the given
// instant: no recorded activity, or activity within ActivityWindow.
func UserIsActive(lastActivity *time.Time, now time.Time) bool {
	if lastActivity == nil {
		return true
	}
	return now.Sub(*lastActivity) < ActivityWindow
}
