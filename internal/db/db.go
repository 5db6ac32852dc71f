package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return database, nil
}

func runMigrations(database *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            full_name TEXT,
            age INT,
            gender TEXT,
            city TEXT,
            profile_pic TEXT,
            is_online BOOLEAN NOT NULL DEFAULT FALSE,
            last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            auto_delete_chat TEXT NOT NULL DEFAULT 'never',
            fcm_token TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS user_blocks (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            blocked_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            PRIMARY KEY(user_id, blocked_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_restrictions (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            restricted_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            PRIMARY KEY(user_id, restricted_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_chat_pins (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            chat_id INT NOT NULL,
            pin_hash TEXT NOT NULL,
            PRIMARY KEY(user_id, chat_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_saved_messages (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            message_id INT NOT NULL,
            saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY(user_id, message_id)
        );`,
		// pair_key is the sorted "min:max" participant pair for private
		// chats; the UNIQUE constraint closes the duplicate-chat race.
		`CREATE TABLE IF NOT EXISTS chats (
            id SERIAL PRIMARY KEY,
            is_group BOOLEAN NOT NULL DEFAULT FALSE,
            group_name TEXT,
            group_photo TEXT,
            group_theme TEXT,
            admin_id INT REFERENCES users(id),
            auto_delete_policy TEXT NOT NULL DEFAULT 'never',
            pair_key TEXT UNIQUE,
            last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS chat_participants (
            chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            PRIMARY KEY(chat_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            sender_id INT NOT NULL REFERENCES users(id),
            content TEXT NOT NULL DEFAULT '',
            message_type TEXT NOT NULL DEFAULT 'text',
            media_url TEXT,
            is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
            sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            auto_delete_at TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_auto_delete_at ON messages (auto_delete_at) WHERE auto_delete_at IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender_sent_at ON messages (sender_id, sent_at);`,
		`CREATE TABLE IF NOT EXISTS message_reads (
            message_id INT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            read_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY(message_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS chat_pinned_messages (
            chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            message_id INT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
            PRIMARY KEY(chat_id, message_id)
        );`,
		`CREATE TABLE IF NOT EXISTS advertisements (
            id SERIAL PRIMARY KEY,
            business_name TEXT NOT NULL DEFAULT '',
            about_business TEXT,
            ad_content_url TEXT,
            ad_model TEXT NOT NULL,
            ad_element TEXT NOT NULL,
            content_type TEXT NOT NULL,
            wallet DOUBLE PRECISION NOT NULL DEFAULT 2500,
            total_spent DOUBLE PRECISION NOT NULL DEFAULT 0,
            overage DOUBLE PRECISION NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            impressions BIGINT NOT NULL DEFAULT 0,
            clicks BIGINT NOT NULL DEFAULT 0,
            views BIGINT NOT NULL DEFAULT 0,
            engagements BIGINT NOT NULL DEFAULT 0,
            installs BIGINT NOT NULL DEFAULT 0,
            form_submits BIGINT NOT NULL DEFAULT 0,
            version INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS ad_events (
            id SERIAL PRIMARY KEY,
            ad_id INT NOT NULL REFERENCES advertisements(id) ON DELETE CASCADE,
            event_type TEXT NOT NULL,
            user_id INT REFERENCES users(id),
            reaction TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_ad_events_ad_type ON ad_events (ad_id, event_type, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS ad_form_submissions (
            id SERIAL PRIMARY KEY,
            ad_id INT NOT NULL REFERENCES advertisements(id) ON DELETE CASCADE,
            user_id INT REFERENCES users(id),
            form_data JSONB NOT NULL,
            submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	}

	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	log.Info().Msg("database migrations applied")
	return nil
}
