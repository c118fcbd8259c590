package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

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
		SELECT `+themeColumns+` FROM chat_themes WHERE id = ?
	`, themeID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan theme: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat_themes SET is_active = (id = ?)`, themeID); err != nil {
		return nil, fmt.Errorf("switch theme: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE chat_settings SET active_theme_id = ?, updated_at = ? WHERE id = 1
	`, themeID, time.Now()); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	theme.IsActive = true
	return theme, nil
}
