package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish11112222/naha2/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	s := NewStore(db, 1<<20)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func signUp(t *testing.T, s *Store, username, email string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.SignUpInput{
		Username:  username,
		Email:     email,
		Password:  "secret1",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM chat_themes`).Scan(&n))
	assert.Equal(t, 6, n, "reseeding must not duplicate themes")
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := signUp(t, s, "alice", "alice@example.com")
	assert.Positive(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := s.CreateUser(ctx, domain.SignUpInput{
			Username: "alice2", Email: "alice@example.com",
			Password: "secret1", FirstName: "A", LastName: "L",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := s.CreateUser(ctx, domain.SignUpInput{
			Username: "alice", Email: "other@example.com",
			Password: "secret1", FirstName: "A", LastName: "L",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	})

	t.Run("Lookups", func(t *testing.T) {
		byID, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)

		byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, u.ID, byEmail.ID)

		missing, err := s.GetUser(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Authenticate", func(t *testing.T) {
		got, err := s.AuthenticateUser(ctx, domain.SignInInput{Email: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		require.NotNil(t, got)

		got, err = s.AuthenticateUser(ctx, domain.SignInInput{Email: "alice@example.com", Password: "nope"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ProfileUpdate", func(t *testing.T) {
		bio := "sqlite tester"
		updated, err := s.UpdateUserProfile(ctx, u.ID, domain.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.NotNil(t, updated.Bio)
		assert.Equal(t, "sqlite tester", *updated.Bio)
		assert.Equal(t, "Test", updated.FirstName)

		big := strings.Repeat("a", 1<<20+1)
		_, err = s.UpdateUserProfile(ctx, u.ID, domain.ProfileUpdate{Avatar: &big})
		assert.ErrorIs(t, err, domain.ErrAvatarTooLarge)
	})

	t.Run("Activity", func(t *testing.T) {
		require.NoError(t, s.UpdateUserActivity(ctx, u.ID))

		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOnline)
		assert.NotNil(t, got.LastActivity)

		active, err := s.GetUsersCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, active)

		total, err := s.GetTotalUsersCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestMessageLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := signUp(t, s, "bob", "bob@example.com")
	other := signUp(t, s, "carol", "carol@example.com")

	msg, err := s.CreateMessage(ctx, domain.MessageInput{Content: "hello", Username: "Bob U", UserID: owner.ID})
	require.NoError(t, err)
	assert.Positive(t, msg.ID)
	assert.Nil(t, msg.UpdatedAt)

	second, err := s.CreateMessage(ctx, domain.MessageInput{Content: "world", Username: "Bob U", UserID: owner.ID})
	require.NoError(t, err)
	assert.Greater(t, second.ID, msg.ID)

	t.Run("ListOrder", func(t *testing.T) {
		msgs, err := s.GetMessages(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "hello", msgs[0].Content)
		assert.Equal(t, "world", msgs[1].Content)
	})

	t.Run("EditNotOwner", func(t *testing.T) {
		updated, err := s.UpdateMessage(ctx, msg.ID, other.ID, "hacked")
		require.NoError(t, err)
		assert.Nil(t, updated)

		got, _ := s.GetMessageByID(ctx, msg.ID)
		assert.Equal(t, "hello", got.Content)
	})

	t.Run("EditOwner", func(t *testing.T) {
		updated, err := s.UpdateMessage(ctx, msg.ID, owner.ID, "hello edited")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "hello edited", updated.Content)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("DeleteNotOwner", func(t *testing.T) {
		ok, err := s.DeleteMessage(ctx, msg.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteOwner", func(t *testing.T) {
		ok, err := s.DeleteMessage(ctx, msg.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := s.GetMessageByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("PerUserCount", func(t *testing.T) {
		n, err := s.GetUserMessageCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestThemeSwitching(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	active, err := s.GetActiveTheme(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Classic Blue", active.Name)

	themes, err := s.GetAvailableThemes(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 6)

	t.Run("Switch", func(t *testing.T) {
		theme, err := s.SetActiveTheme(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Forest Green", theme.Name)
		assert.True(t, theme.IsActive)

		active, err := s.GetActiveTheme(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, active.ID)

		themes, err := s.GetAvailableThemes(ctx)
		require.NoError(t, err)
		for _, th := range themes {
			assert.Equal(t, th.ID == 3, th.IsActive)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := s.SetActiveTheme(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		active, err := s.GetActiveTheme(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, active.ID)
	})
}
