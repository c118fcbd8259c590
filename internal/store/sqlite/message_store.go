package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

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
		SELECT `+messageColumns+` FROM messages WHERE id = ?
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
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (content, username, user_id, attachment_url, attachment_type, attachment_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Content, in.Username, in.UserID, in.AttachmentURL, in.AttachmentType, in.AttachmentName, time.Now())
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
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
		UPDATE messages SET content = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`, content, now, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	msg.Content = content
	msg.UpdatedAt = &now
	return msg, nil
}

// DeleteMessage applies the same strict ownership check as the memory
// backend: matching ids, both parties present, and identical email plus
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

	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
