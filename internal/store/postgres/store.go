package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

// Store implements domain.Storage on PostgreSQL. Semantics match the
// sqlite backend; only placeholders and id generation (BIGSERIAL with
// RETURNING) differ.
type Store struct {
	db             *sql.DB
	maxAvatarBytes int
}

var _ domain.Storage = (*Store)(nil)

func NewStore(db *sql.DB, maxAvatarBytes int) *Store {
	return &Store{db: db, maxAvatarBytes: maxAvatarBytes}
}

func (s *Store) Close() error {
	return s.db.Close()
}

const userColumns = `id, username, email, password, first_name, last_name, avatar, bio, location, website, date_of_birth, is_online, last_activity, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Avatar, &u.Bio, &u.Location, &u.Website, &u.DateOfBirth,
		&u.IsOnline, &u.LastActivity, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

const messageColumns = `id, content, username, user_id, attachment_url, attachment_type, attachment_name, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (*domain.Message, error) {
	m := &domain.Message{}
	err := row.Scan(
		&m.ID, &m.Content, &m.Username, &m.UserID,
		&m.AttachmentURL, &m.AttachmentType, &m.AttachmentName,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

const themeColumns = `id, name, primary_color, secondary_color, background_color, message_background_self, message_background_other, text_color, is_active, created_at`

func scanTheme(row interface{ Scan(...any) error }) (*domain.ChatTheme, error) {
	t := &domain.ChatTheme{}
	err := row.Scan(
		&t.ID, &t.Name, &t.PrimaryColor, &t.SecondaryColor, &t.BackgroundColor,
		&t.MessageBackgroundSelf, &t.MessageBackgroundOther, &t.TextColor,
		&t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	if existing, err := s.GetUserByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}
	if existing, err := s.GetUserByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, in.Username, in.Email, in.Password, in.FirstName, in.LastName).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	log.Printf("user created: id=%d username=%s", id, in.Username)
	return s.GetUser(ctx, id)
}

func (s *Store) AuthenticateUser(ctx context.Context, in domain.SignInInput) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("authentication failed: no user for email %s", in.Email)
		return nil, nil
	}
	if user.Password != in.Password {
		log.Printf("authentication failed: password mismatch for %s", in.Email)
		return nil, nil
	}
	return user, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID int64, updates domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if updates.Avatar != nil && len(*updates.Avatar) > s.maxAvatarBytes {
		return nil, domain.ErrAvatarTooLarge
	}

	if updates.FirstName != nil && *updates.FirstName != "" {
		user.FirstName = *updates.FirstName
	}
	if updates.LastName != nil && *updates.LastName != "" {
		user.LastName = *updates.LastName
	}
	if updates.Bio != nil {
		user.Bio = updates.Bio
	}
	if updates.Location != nil {
		user.Location = updates.Location
	}
	if updates.Website != nil {
		user.Website = updates.Website
	}
	if updates.Avatar != nil {
		user.Avatar = updates.Avatar
	}
	if updates.DateOfBirth != nil {
		user.DateOfBirth = updates.DateOfBirth
	}
	now := time.Now()
	user.LastActivity = &now

	_, err = s.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, location = $4, website = $5,
		    avatar = $6, date_of_birth = $7, last_activity = $8
		WHERE id = $9
	`, user.FirstName, user.LastName, user.Bio, user.Location, user.Website,
		user.Avatar, user.DateOfBirth, user.LastActivity, userID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUserActivity(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_activity = NOW(), is_online = TRUE WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

func (s *Store) GetUsersCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-domain.ActivityWindow)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE last_activity IS NULL OR last_activity > $1
	`, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return count, nil
}

func (s *Store) GetTotalUsersCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *Store) GetOnlineUsers(ctx context.Context) ([]*domain.User, error) {
	return s.GetAllUsers(ctx)
}

func (s *Store) GetUserMessageCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return count, nil
}

func (s *Store) GetMessages(ctx context.Context) ([]*domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) GetMessageByID(ctx context.Context, id int64) (*domain.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return m, nil
}

func (s *Store) CreateMessage(ctx context.Context, in domain.MessageInput) (*domain.Message, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (content, username, user_id, attachment_url, attachment_type, attachment_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.Content, in.Username, in.UserID, in.AttachmentURL, in.AttachmentType, in.AttachmentName).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return s.GetMessageByID(ctx, id)
}

func (s *Store) UpdateMessage(ctx context.Context, id, userID int64, content string) (*domain.Message, error) {
	msg, err := s.GetMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.UserID != userID {
		return nil, nil
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		UPDATE messages SET content = $1, updated_at = $2 WHERE id = $3 AND user_id = $4
	`, content, now, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	msg.Content = content
	msg.UpdatedAt = &now
	return msg, nil
}

// DeleteMessage applies the same strict ownership check as the other
// backends: matching ids, both parties present, and identical email plus
// username between the acting user and the stored owner.
func (s *Store) DeleteMessage(ctx context.Context, id, userID int64) (bool, error) {
	msg, err := s.GetMessageByID(ctx, id)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	owner, err := s.GetUser(ctx, msg.UserID)
	if err != nil {
		return false, err
	}

	if msg.UserID != userID || user == nil || owner == nil {
		log.Printf("ownership violation: user %d attempted to delete message %d owned by user %d", userID, id, msg.UserID)
		return false, nil
	}
	if user.Email != owner.Email || user.Username != owner.Username {
		log.Printf("ownership violation: id match but identity mismatch deleting message %d (caller %s/%s, owner %s/%s)",
			id, user.Email, user.Username, owner.Email, owner.Username)
		return false, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetActiveTheme(ctx context.Context) (*domain.ChatTheme, error) {
	t, err := scanTheme(s.db.QueryRowContext(ctx, `
		SELECT `+themeColumns+`
		FROM chat_themes
		WHERE id = (SELECT active_theme_id FROM chat_settings WHERE id = 1)
	`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan theme: %w", err)
	}
	return t, nil
}

func (s *Store) GetAvailableThemes(ctx context.Context) ([]*domain.ChatTheme, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+themeColumns+` FROM chat_themes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var themes []*domain.ChatTheme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (s *Store) SetActiveTheme(ctx context.Context, themeID int64) (*domain.ChatTheme, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	theme, err := scanTheme(tx.QueryRowContext(ctx, `
		SELECT `+themeColumns+` FROM chat_themes WHERE id = $1
	`, themeID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan theme: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat_themes SET is_active = (id = $1)`, themeID); err != nil {
		return nil, fmt.Errorf("switch theme: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE chat_settings SET active_theme_id = $1, updated_at = NOW() WHERE id = 1
	`, themeID); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	theme.IsActive = true
	return theme, nil
}
