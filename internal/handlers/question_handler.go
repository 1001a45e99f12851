package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/internal/dto"
	"github.com/jermer/quizzly-backend/internal/repository"
)

type QuestionHandler struct {
	questionRepo *repository.QuestionRepository
}

func NewQuestionHandler(questionRepo *repository.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{questionRepo: questionRepo}
}

// Create handles POST /questions. The referenced quiz must exist.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, err := h.questionRepo.Create(c.Request.Context(), repository.CreateQuestionParams{
		QText:         req.QText,
		RightA:        req.RightA,
		WrongA1:       req.WrongA1,
		WrongA2:       req.WrongA2,
		WrongA3:       req.WrongA3,
		QuestionOrder: req.QuestionOrder,
		QuizID:        req.QuizID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"question": dto.ToQuestionDTO(question)})
}

// List handles GET /questions with the optional quizId query filter.
func (h *QuestionHandler) List(c *gin.Context) {
	var quizID *int64
	if raw := c.Query("quizId"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			dto.JsonError(c, http.StatusBadRequest, "Invalid quizId filter")
			return
		}
		quizID = &value
	}

	questions, err := h.questionRepo.FindAll(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	questionDTOs := make([]dto.QuestionDTO, 0, len(questions))
	for _, question := range questions {
		questionDTOs = append(questionDTOs, dto.ToQuestionDTO(question))
	}

	c.JSON(http.StatusOK, gin.H{"questions": questionDTOs})
}

// Get handles GET /questions/:id.
func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	question, err := h.questionRepo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": dto.ToQuestionDTO(question)})
}

// Update handles PATCH /questions/:id.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, err := h.questionRepo.Update(c.Request.Context(), id, req.Fields())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": dto.ToQuestionDTO(question)})
}

// Remove handles DELETE /questions/:id.
func (h *QuestionHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	if err := h.questionRepo.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
