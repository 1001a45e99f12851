package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jermer/quizzly-backend/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createUsersTable := `
		CREATE TABLE IF NOT EXISTS users (
			username VARCHAR(25) PRIMARY KEY,
			password TEXT NOT NULL,
			email TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT false
		);
	`

	createQuizzesTable := `
		CREATE TABLE IF NOT EXISTS quizzes (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT false,
			creator VARCHAR(25) NOT NULL,
			FOREIGN KEY (creator) REFERENCES users(username) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_quizzes_creator ON quizzes(creator);
	`

	createQuestionsTable := `
		CREATE TABLE IF NOT EXISTS questions (
			id SERIAL PRIMARY KEY,
			q_text TEXT NOT NULL,
			right_a TEXT NOT NULL,
			wrong_a1 TEXT NOT NULL,
			wrong_a2 TEXT NOT NULL,
			wrong_a3 TEXT NOT NULL,
			question_order INTEGER NOT NULL DEFAULT 0,
			quiz_id INTEGER NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_questions_quiz_id ON questions(quiz_id);
	`

	createUsersQuizzesTable := `
		CREATE TABLE IF NOT EXISTS users_quizzes (
			username VARCHAR(25) NOT NULL,
			quiz_id INTEGER NOT NULL,
			last_score INTEGER NOT NULL,
			best_score INTEGER NOT NULL,
			time_taken TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, quiz_id),
			FOREIGN KEY (username) REFERENCES users(username) ON DELETE CASCADE,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		);
	`

	if _, err := c.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, createQuizzesTable); err != nil {
		return fmt.Errorf("failed to create quizzes table: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, createQuestionsTable); err != nil {
		return fmt.Errorf("failed to create questions table: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, createUsersQuizzesTable); err != nil {
		return fmt.Errorf("failed to create users_quizzes table: %w", err)
	}

	return nil
}
