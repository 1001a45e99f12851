package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

type Question struct {
	ID            int64
	QText         string
	RightA        string
	WrongA1       string
	WrongA2       string
	WrongA3       string
	QuestionOrder int
	QuizID        int64
}

type CreateQuestionParams struct {
	QText         string
	RightA        string
	WrongA1       string
	WrongA2       string
	WrongA3       string
	QuestionOrder int
	QuizID        int64
}

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question after verifying its quiz exists. The
// pre-check gives the clean error; the foreign key is what actually
// holds under a concurrent quiz deletion.
func (r *QuestionRepository) Create(ctx context.Context, params CreateQuestionParams) (*Question, error) {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, checkQuery, params.QuizID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, apperr.BadRequest("invalid quiz id: %d", params.QuizID)
	}

	query := `
		INSERT INTO questions (q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id
	`

	question := &Question{}
	err := r.db.QueryRowContext(ctx, query,
		params.QText,
		params.RightA,
		params.WrongA1,
		params.WrongA2,
		params.WrongA3,
		params.QuestionOrder,
		params.QuizID,
	).Scan(
		&question.ID,
		&question.QText,
		&question.RightA,
		&question.WrongA1,
		&question.WrongA2,
		&question.WrongA3,
		&question.QuestionOrder,
		&question.QuizID,
	)

	if isForeignKeyViolation(err) {
		return nil, apperr.BadRequest("invalid quiz id: %d", params.QuizID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// FindAll lists questions, optionally restricted to one quiz, ordered
// by (quiz_id, question_order) for stable display.
func (r *QuestionRepository) FindAll(ctx context.Context, quizID *int64) ([]*Question, error) {
	query := `
		SELECT id, q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id
		FROM questions
	`

	var args []any
	if quizID != nil {
		query += " WHERE quiz_id = $1"
		args = append(args, *quizID)
	}
	query += " ORDER BY quiz_id, question_order"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*Question
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
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (r *QuestionRepository) Get(ctx context.Context, id int64) (*Question, error) {
	query := `
		SELECT id, q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id
		FROM questions
		WHERE id = $1
	`

	question := &Question{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&question.ID,
		&question.QText,
		&question.RightA,
		&question.WrongA1,
		&question.WrongA2,
		&question.WrongA3,
		&question.QuestionOrder,
		&question.QuizID,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no question found with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return question, nil
}

// Update applies a partial update. Callers supply fields in storage
// column form (q_text, right_a, ...); quiz_id is not updatable and is
// never included.
func (r *QuestionRepository) Update(ctx context.Context, id int64, fields map[string]any) (*Question, error) {
	clause, values, err := buildSetClause(fields, nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE questions
		SET %s
		WHERE id = $%d
		RETURNING id, q_text, right_a, wrong_a1, wrong_a2, wrong_a3, question_order, quiz_id
	`, clause, len(values)+1)
	values = append(values, id)

	question := &Question{}
	err = r.db.QueryRowContext(ctx, query, values...).Scan(
		&question.ID,
		&question.QText,
		&question.RightA,
		&question.WrongA1,
		&question.WrongA2,
		&question.WrongA3,
		&question.QuestionOrder,
		&question.QuizID,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no question found with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

func (r *QuestionRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM questions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("no question found with id %d", id)
	}

	return nil
}
