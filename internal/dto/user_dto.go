package dto

import (
	"time"

	"github.com/jermer/quizzly-backend/internal/repository"
)

type UserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

type UserDetailDTO struct {
	UserDTO
	Quizzes []int64    `json:"quizzes"`
	Scores  []ScoreDTO `json:"scores"`
}

type ScoreDTO struct {
	QuizID        int64     `json:"quizId"`
	QuizTitle     string    `json:"quizTitle"`
	LastScore     int       `json:"lastScore"`
	BestScore     int       `json:"bestScore"`
	TimeTaken     time.Time `json:"timeTaken"`
	QuestionCount int       `json:"questionCount"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Email    *string `json:"email"`
	IsAdmin  *bool   `json:"isAdmin"`
}

// Fields returns the sparse field map for a partial update, using the
// external field names the user repository's translation table expects.
func (r *UpdateUserRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r.Password != nil {
		fields["password"] = *r.Password
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.IsAdmin != nil {
		fields["isAdmin"] = *r.IsAdmin
	}
	return fields
}

type RecordScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

type ScoreRecordedDTO struct {
	Username  string    `json:"username"`
	QuizID    int64     `json:"quizId"`
	LastScore int       `json:"lastScore"`
	BestScore int       `json:"bestScore"`
	TimeTaken time.Time `json:"timeTaken"`
}

func ToUserDTO(u *repository.User) UserDTO {
	return UserDTO{
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

func ToUserDetailDTO(u *repository.UserDetail) UserDetailDTO {
	detail := UserDetailDTO{
		UserDTO: ToUserDTO(&u.User),
		Quizzes: []int64{},
		Scores:  []ScoreDTO{},
	}
	detail.Quizzes = append(detail.Quizzes, u.Quizzes...)
	for _, s := range u.Scores {
		detail.Scores = append(detail.Scores, ScoreDTO{
			QuizID:        s.QuizID,
			QuizTitle:     s.QuizTitle,
			LastScore:     s.LastScore,
			BestScore:     s.BestScore,
			TimeTaken:     s.TimeTaken,
			QuestionCount: s.QuestionCount,
		})
	}
	return detail
}

func ToScoreRecordedDTO(a *repository.QuizAttempt) ScoreRecordedDTO {
	return ScoreRecordedDTO{
		Username:  a.Username,
		QuizID:    a.QuizID,
		LastScore: a.LastScore,
		BestScore: a.BestScore,
		TimeTaken: a.TimeTaken,
	}
}
