package dto

import "github.com/jermer/quizzly-backend/internal/repository"

type QuestionDTO struct {
	ID            int64  `json:"id"`
	QText         string `json:"qText"`
	RightA        string `json:"rightA"`
	WrongA1       string `json:"wrongA1"`
	WrongA2       string `json:"wrongA2"`
	WrongA3       string `json:"wrongA3"`
	QuestionOrder int    `json:"questionOrder"`
	QuizID        int64  `json:"quizId"`
}

type CreateQuestionRequest struct {
	QText         string `json:"qText" binding:"required"`
	RightA        string `json:"rightA" binding:"required"`
	WrongA1       string `json:"wrongA1" binding:"required"`
	WrongA2       string `json:"wrongA2" binding:"required"`
	WrongA3       string `json:"wrongA3" binding:"required"`
	QuestionOrder int    `json:"questionOrder"`
	QuizID        int64  `json:"quizId" binding:"required"`
}

type UpdateQuestionRequest struct {
	QText         *string `json:"qText"`
	RightA        *string `json:"rightA"`
	WrongA1       *string `json:"wrongA1"`
	WrongA2       *string `json:"wrongA2"`
	WrongA3       *string `json:"wrongA3"`
	QuestionOrder *int    `json:"questionOrder"`
}

// Fields returns the sparse field map for a partial update. Question
// fields are supplied in storage column form, so the clause builder
// needs no translation table. quiz_id is deliberately absent: a
// question cannot move between quizzes.
func (r *UpdateQuestionRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r.QText != nil {
		fields["q_text"] = *r.QText
	}
	if r.RightA != nil {
		fields["right_a"] = *r.RightA
	}
	if r.WrongA1 != nil {
		fields["wrong_a1"] = *r.WrongA1
	}
	if r.WrongA2 != nil {
		fields["wrong_a2"] = *r.WrongA2
	}
	if r.WrongA3 != nil {
		fields["wrong_a3"] = *r.WrongA3
	}
	if r.QuestionOrder != nil {
		fields["question_order"] = *r.QuestionOrder
	}
	return fields
}

func ToQuestionDTO(q *repository.Question) QuestionDTO {
	return QuestionDTO{
		ID:            q.ID,
		QText:         q.QText,
		RightA:        q.RightA,
		WrongA1:       q.WrongA1,
		WrongA2:       q.WrongA2,
		WrongA3:       q.WrongA3,
		QuestionOrder: q.QuestionOrder,
		QuizID:        q.QuizID,
	}
}
