package sqlite

import (
	"database/sql"

	"github.com/fish11112222/naha2/internal/domain"
)

// Store implements domain.Storage on a SQLite database. Unlike the memory
// backend, user ids are plain AUTOINCREMENT values; uniqueness comes from
// the primary key rather than timestamp probing.
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
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.Avatar,
		&u.Bio,
		&u.Location,
		&u.Website,
		&u.DateOfBirth,
		&u.IsOnline,
		&u.LastActivity,
		&u.CreatedAt,
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
		&m.ID,
		&m.Content,
		&m.Username,
		&m.UserID,
		&m.AttachmentURL,
		&m.AttachmentType,
		&m.AttachmentName,
		&m.CreatedAt,
		&m.UpdatedAt,
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
		&t.ID,
		&t.Name,
		&t.PrimaryColor,
		&t.SecondaryColor,
		&t.BackgroundColor,
		&t.MessageBackgroundSelf,
		&t.MessageBackgroundOther,
		&t.TextColor,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
