package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/fish11112222/naha2/internal/domain"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL and seeds the theme catalogue plus the
// settings singleton.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(20) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			avatar TEXT DEFAULT NULL,
			bio TEXT DEFAULT NULL,
			location VARCHAR(100) DEFAULT NULL,
			website TEXT DEFAULT NULL,
			date_of_birth DATETIME DEFAULT NULL,
			is_online BOOLEAN DEFAULT FALSE,
			last_activity DATETIME DEFAULT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			username VARCHAR(50) NOT NULL,
			user_id INTEGER NOT NULL,
			attachment_url TEXT DEFAULT NULL,
			attachment_type VARCHAR(10) DEFAULT NULL,
			attachment_name TEXT DEFAULT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chat_themes (
			id INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			primary_color VARCHAR(9) NOT NULL,
			secondary_color VARCHAR(9) NOT NULL,
			background_color VARCHAR(9) NOT NULL,
			message_background_self VARCHAR(9) NOT NULL,
			message_background_other VARCHAR(9) NOT NULL,
			text_color VARCHAR(9) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chat_settings (
			id INTEGER PRIMARY KEY,
			active_theme_id INTEGER REFERENCES chat_themes(id),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at ASC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return seed(db)
}

func seed(db *sql.DB) error {
	for _, t := range domain.DefaultThemes() {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO chat_themes
				(id, name, primary_color, secondary_color, background_color,
				 message_background_self, message_background_other, text_color, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.PrimaryColor, t.SecondaryColor, t.BackgroundColor,
			t.MessageBackgroundSelf, t.MessageBackgroundOther, t.TextColor, t.IsActive)
		if err != nil {
			return fmt.Errorf("seed theme %q: %w", t.Name, err)
		}
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO chat_settings (id, active_theme_id) VALUES (1, 1)`); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
