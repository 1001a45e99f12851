package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

// User is a user row with the password hash already stripped. The hash
// never leaves this package.
type User struct {
	Username string
	Email    string
	IsAdmin  bool
}

// UserDetail is a user plus the derived collections returned by Get:
// ids of quizzes the user created, and one aggregated score entry per
// quiz the user has attempted.
type UserDetail struct {
	User
	Quizzes []int64
	Scores  []*QuizScore
}

type QuizScore struct {
	QuizID        int64
	QuizTitle     string
	LastScore     int
	BestScore     int
	TimeTaken     time.Time
	QuestionCount int
}

// QuizAttempt is the users_quizzes row state after a score recording.
type QuizAttempt struct {
	Username  string
	QuizID    int64
	LastScore int
	BestScore int
	TimeTaken time.Time
}

type RegisterParams struct {
	Username string
	Password string
	Email    string
	IsAdmin  bool
}

type UserRepository struct {
	db         *sql.DB
	bcryptCost int
}

func NewUserRepository(db *sql.DB, bcryptCost int) *UserRepository {
	return &UserRepository{
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// Authenticate checks the supplied credentials against the stored
// bcrypt hash. An unknown username and a wrong password fail with the
// same error so callers cannot enumerate usernames.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*User, error) {
	query := `
		SELECT username, password, email, is_admin
		FROM users
		WHERE username = $1
	`

	user := &User{}
	var hash string
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&hash,
		&user.Email,
		&user.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.Unauthorized()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperr.Unauthorized()
	}

	return user, nil
}

// Register hashes the password and inserts the new user. The duplicate
// pre-check produces the friendly error in the common case; the unique
// constraint on username catches the race.
func (r *UserRepository) Register(ctx context.Context, params RegisterParams) (*User, error) {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	if err := r.db.QueryRowContext(ctx, checkQuery, params.Username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, apperr.BadRequest("username '%s' already taken", params.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (username, password, email, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING username, email, is_admin
	`

	user := &User{}
	err = r.db.QueryRowContext(ctx, query,
		params.Username,
		string(hash),
		params.Email,
		params.IsAdmin,
	).Scan(
		&user.Username,
		&user.Email,
		&user.IsAdmin,
	)

	if isUniqueViolation(err) {
		return nil, apperr.BadRequest("username '%s' already taken", params.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*User, error) {
	query := `
		SELECT username, email, is_admin
		FROM users
		ORDER BY username
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.Username, &user.Email, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Get returns the user plus the ids of quizzes they created and their
// aggregated attempt scores. The score entries join the attempt table
// against quizzes and questions to carry each quiz's title and total
// question count.
func (r *UserRepository) Get(ctx context.Context, username string) (*UserDetail, error) {
	query := `
		SELECT username, email, is_admin
		FROM users
		WHERE username = $1
	`

	detail := &UserDetail{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&detail.Username,
		&detail.Email,
		&detail.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no user found with username %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	quizzesQuery := `
		SELECT id
		FROM quizzes
		WHERE creator = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, quizzesQuery, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan quiz id: %w", err)
		}
		detail.Quizzes = append(detail.Quizzes, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	scores, err := r.getScores(ctx, username)
	if err != nil {
		return nil, err
	}
	detail.Scores = scores

	return detail, nil
}

func (r *UserRepository) getScores(ctx context.Context, username string) ([]*QuizScore, error) {
	query := `
		SELECT uq.quiz_id, q.title, uq.last_score, uq.best_score, uq.time_taken,
			COUNT(qn.id) AS question_count
		FROM users_quizzes uq
		JOIN quizzes q ON uq.quiz_id = q.id
		LEFT JOIN questions qn ON qn.quiz_id = q.id
		WHERE uq.username = $1
		GROUP BY uq.quiz_id, q.title, uq.last_score, uq.best_score, uq.time_taken
		ORDER BY uq.quiz_id
	`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []*QuizScore
	for rows.Next() {
		score := &QuizScore{}
		err := rows.Scan(
			&score.QuizID,
			&score.QuizTitle,
			&score.LastScore,
			&score.BestScore,
			&score.TimeTaken,
			&score.QuestionCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}

	return scores, rows.Err()
}

// Update applies a partial update. A new password is re-hashed before
// it reaches the statement; the returned record never includes the
// hash.
func (r *UserRepository) Update(ctx context.Context, username string, fields map[string]any) (*User, error) {
	if password, ok := fields["password"].(string); ok {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hash)
	}

	clause, values, err := buildSetClause(fields, map[string]string{"isAdmin": "is_admin"})
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE username = $%d
		RETURNING username, email, is_admin
	`, clause, len(values)+1)
	values = append(values, username)

	user := &User{}
	err = r.db.QueryRowContext(ctx, query, values...).Scan(
		&user.Username,
		&user.Email,
		&user.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no user found with username %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Remove(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	result, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("no user found with username %s", username)
	}

	return nil
}

// RecordScore upserts an attempt row for the (username, quizId) pair.
// last_score and time_taken always reflect the newest attempt;
// best_score only moves up. Both references are checked up front, the
// username first.
func (r *UserRepository) RecordScore(ctx context.Context, username string, quizID int64, score int) (*QuizAttempt, error) {
	var exists bool
	userQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	if err := r.db.QueryRowContext(ctx, userQuery, username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("no user found with username %s", username)
	}

	quizQuery := `SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, quizQuery, quizID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("no quiz found with id %d", quizID)
	}

	query := `
		INSERT INTO users_quizzes (username, quiz_id, last_score, best_score, time_taken)
		VALUES ($1, $2, $3, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (username, quiz_id) DO UPDATE SET
			last_score = EXCLUDED.last_score,
			time_taken = EXCLUDED.time_taken,
			best_score = GREATEST(users_quizzes.best_score, EXCLUDED.last_score)
		RETURNING username, quiz_id, last_score, best_score, time_taken
	`

	attempt := &QuizAttempt{}
	err := r.db.QueryRowContext(ctx, query, username, quizID, score).Scan(
		&attempt.Username,
		&attempt.QuizID,
		&attempt.LastScore,
		&attempt.BestScore,
		&attempt.TimeTaken,
	)

	if isForeignKeyViolation(err) {
		// A reference vanished between the pre-checks and the insert.
		return nil, apperr.NotFound("no quiz found with id %d", quizID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	return attempt, nil
}
