package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

type Quiz struct {
	ID          int64
	Title       string
	Description string
	IsPublic    bool
	Creator     string
}

type QuizWithQuestions struct {
	Quiz
	Questions []*Question
}

// QuizFilter holds the optional findAll restrictions. Zero values mean
// "no restriction on that dimension", which is why IsPublic is a
// pointer: filtering on is_public = false is distinct from not
// filtering at all.
type QuizFilter struct {
	SearchString string
	Creator      string
	IsPublic     *bool
}

type CreateQuizParams struct {
	Title       string
	Description string
	IsPublic    bool
	Creator     string
}

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, params CreateQuizParams) (*Quiz, error) {
	query := `
		INSERT INTO quizzes (title, description, is_public, creator)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, is_public, creator
	`

	quiz := &Quiz{}
	err := r.db.QueryRowContext(ctx, query,
		params.Title,
		params.Description,
		params.IsPublic,
		params.Creator,
	).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.Description,
		&quiz.IsPublic,
		&quiz.Creator,
	)

	if isForeignKeyViolation(err) {
		return nil, apperr.BadRequest("invalid creator: %s", params.Creator)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	return quiz, nil
}

// FindAll returns quizzes matching every supplied filter: a
// case-insensitive substring match against title or description, an
// exact creator match, and an exact visibility match. Filters compose
// with AND; an absent filter places no restriction.
func (r *QuizRepository) FindAll(ctx context.Context, filter QuizFilter) ([]*Quiz, error) {
	query := `SELECT id, title, description, is_public, creator FROM quizzes`

	var whereExpressions []string
	var queryValues []any

	if filter.SearchString != "" {
		queryValues = append(queryValues, "%"+filter.SearchString+"%")
		n := len(queryValues)
		whereExpressions = append(whereExpressions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	if filter.Creator != "" {
		queryValues = append(queryValues, filter.Creator)
		whereExpressions = append(whereExpressions,
			fmt.Sprintf("creator = $%d", len(queryValues)))
	}

	if filter.IsPublic != nil {
		queryValues = append(queryValues, *filter.IsPublic)
		whereExpressions = append(whereExpressions,
			fmt.Sprintf("is_public = $%d", len(queryValues)))
	}

	if len(whereExpressions) > 0 {
		query += " WHERE " + strings.Join(whereExpressions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, queryValues...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*Quiz
	for rows.Next() {
		quiz := &Quiz{}
		err := rows.Scan(
			&quiz.ID,
			&quiz.Title,
			&quiz.Description,
			&quiz.IsPublic,
			&quiz.Creator,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	return quizzes, rows.Err()
}

// Get fetches the quiz and embeds its questions in display order. Two
// queries, not a join: quizzes carry few questions and the read sits
// inside whatever transaction the caller established.
func (r *QuizRepository) Get(ctx context.Context, id int64) (*QuizWithQuestions, error) {
	query := `
		SELECT id, title, description, is_public, creator
		FROM quizzes
		WHERE id = $1
	`

	result := &QuizWithQuestions{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID,
		&result.Title,
		&result.Description,
		&result.IsPublic,
		&result.Creator,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no quiz found with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questionsQuery := `
		SELECT id, q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id
		FROM questions
		WHERE quiz_id = $1
		ORDER BY question_order
	`

	rows, err := r.db.QueryContext(ctx, questionsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		question := &Question{}
		err := rows.Scan(
			&question.ID,
			&question.QText,
			&question.RightA,
			&question.WrongA1,
			&question.WrongA2,
			&question.WrongA3,
			&question.QuestionOrder,
			&question.QuizID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		result.Questions = append(result.Questions, question)
	}

	return result, rows.Err()
}

func (r *QuizRepository) Update(ctx context.Context, id int64, fields map[string]any) (*Quiz, error) {
	clause, values, err := buildSetClause(fields, map[string]string{"isPublic": "is_public"})
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE quizzes
		SET %s
		WHERE id = $%d
		RETURNING id, title, description, is_public, creator
	`, clause, len(values)+1)
	values = append(values, id)

	quiz := &Quiz{}
	err = r.db.QueryRowContext(ctx, query, values...).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.Description,
		&quiz.IsPublic,
		&quiz.Creator,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no quiz found with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	return quiz, nil
}

// Remove deletes the quiz row only. Dependent questions and attempt
// rows go with it through the ON DELETE CASCADE rules on their foreign
// keys.
func (r *QuizRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM quizzes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("no quiz found with id %d", id)
	}

	return nil
}
