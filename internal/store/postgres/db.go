package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fish11112222/naha2/internal/domain"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL and seeds the theme catalogue plus the
// settings singleton.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL    PRIMARY KEY,
			username      VARCHAR(20)  UNIQUE NOT NULL,
			email         VARCHAR(100) UNIQUE NOT NULL,
			password      TEXT         NOT NULL,
			first_name    VARCHAR(50)  NOT NULL,
			last_name     VARCHAR(50)  NOT NULL,
			avatar        TEXT,
			bio           TEXT,
			location      VARCHAR(100),
			website       TEXT,
			date_of_birth TIMESTAMPTZ,
			is_online     BOOLEAN      NOT NULL DEFAULT FALSE,
			last_activity TIMESTAMPTZ,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id              BIGSERIAL   PRIMARY KEY,
			content         TEXT        NOT NULL,
			username        VARCHAR(50) NOT NULL,
			user_id         BIGINT      NOT NULL,
			attachment_url  TEXT,
			attachment_type VARCHAR(10),
			attachment_name TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS chat_themes (
			id                       BIGINT      PRIMARY KEY,
			name                     VARCHAR(100) NOT NULL,
			primary_color            VARCHAR(9)  NOT NULL,
			secondary_color          VARCHAR(9)  NOT NULL,
			background_color         VARCHAR(9)  NOT NULL,
			message_background_self  VARCHAR(9)  NOT NULL,
			message_background_other VARCHAR(9)  NOT NULL,
			text_color               VARCHAR(9)  NOT NULL,
			is_active                BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS chat_settings (
			id              BIGINT      PRIMARY KEY,
			active_theme_id BIGINT      REFERENCES chat_themes(id),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at ASC)`,
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
			INSERT INTO chat_themes
				(id, name, primary_color, secondary_color, background_color,
				 message_background_self, message_background_other, text_color, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, t.ID, t.Name, t.PrimaryColor, t.SecondaryColor, t.BackgroundColor,
			t.MessageBackgroundSelf, t.MessageBackgroundOther, t.TextColor, t.IsActive)
		if err != nil {
			return fmt.Errorf("seed theme %q: %w", t.Name, err)
		}
	}
	_, err := db.Exec(`
		INSERT INTO chat_settings (id, active_theme_id) VALUES (1, 1)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
