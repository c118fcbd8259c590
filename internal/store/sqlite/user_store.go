package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
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

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, first_name, last_name, is_online, created_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)
	`, in.Username, in.Email, in.Password, in.FirstName, in.LastName, now)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
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
	// Plaintext comparison, same contract as the memory backend.
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
		SET first_name = ?, last_name = ?, bio = ?, location = ?, website = ?,
		    avatar = ?, date_of_birth = ?, last_activity = ?
		WHERE id = ?
	`, user.FirstName, user.LastName, user.Bio, user.Location, user.Website,
		user.Avatar, user.DateOfBirth, user.LastActivity, userID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUserActivity(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_activity = ?, is_online = TRUE WHERE id = ?
	`, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

func (s *Store) GetUsersCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-domain.ActivityWindow)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE last_activity IS NULL OR last_activity > ?
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
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return count, nil
}
