package dto

import "github.com/jermer/quizzly-backend/internal/repository"

type QuizDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
	Creator     string `json:"creator"`
}

type QuizDetailDTO struct {
	QuizDTO
	Questions []QuestionDTO `json:"questions"`
}

type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
	Creator     string `json:"creator" binding:"required"`
}

type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

func (r *UpdateQuizRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.IsPublic != nil {
		fields["isPublic"] = *r.IsPublic
	}
	return fields
}

func ToQuizDTO(q *repository.Quiz) QuizDTO {
	return QuizDTO{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		IsPublic:    q.IsPublic,
		Creator:     q.Creator,
	}
}

func ToQuizDetailDTO(q *repository.QuizWithQuestions) QuizDetailDTO {
	detail := QuizDetailDTO{
		QuizDTO:   ToQuizDTO(&q.Quiz),
		Questions: []QuestionDTO{},
	}
	for _, question := range q.Questions {
		detail.Questions = append(detail.Questions, ToQuestionDTO(question))
	}
	return detail
}
