package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/internal/dto"
	"github.com/jermer/quizzly-backend/internal/repository"
)

type QuizHandler struct {
	quizRepo *repository.QuizRepository
}

func NewQuizHandler(quizRepo *repository.QuizRepository) *QuizHandler {
	return &QuizHandler{quizRepo: quizRepo}
}

// Create handles POST /quizzes. Visibility defaults to not-public when
// omitted.
func (h *QuizHandler) Create(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizRepo.Create(c.Request.Context(), repository.CreateQuizParams{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Creator:     req.Creator,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quiz": dto.ToQuizDTO(quiz)})
}

// List handles GET /quizzes with the optional searchString, creator,
// and isPublic query filters.
func (h *QuizHandler) List(c *gin.Context) {
	filter := repository.QuizFilter{
		SearchString: c.Query("searchString"),
		Creator:      c.Query("creator"),
	}

	if isPublic := c.Query("isPublic"); isPublic != "" {
		value, err := strconv.ParseBool(isPublic)
		if err != nil {
			dto.JsonError(c, http.StatusBadRequest, "Invalid isPublic filter")
			return
		}
		filter.IsPublic = &value
	}

	quizzes, err := h.quizRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	quizDTOs := make([]dto.QuizDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		quizDTOs = append(quizDTOs, dto.ToQuizDTO(quiz))
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": quizDTOs})
}

// Get handles GET /quizzes/:id, returning the quiz with its questions
// embedded in display order.
func (h *QuizHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	quiz, err := h.quizRepo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": dto.ToQuizDetailDTO(quiz)})
}

// Update handles PATCH /quizzes/:id.
func (h *QuizHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	var req dto.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizRepo.Update(c.Request.Context(), id, req.Fields())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": dto.ToQuizDTO(quiz)})
}

// Remove handles DELETE /quizzes/:id. The store cascades the delete to
// the quiz's questions and attempt rows.
func (h *QuizHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	if err := h.quizRepo.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
