package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/internal/dto"
	"github.com/jermer/quizzly-backend/internal/repository"
)

type UserHandler struct {
	userRepo *repository.UserRepository
}

func NewUserHandler(userRepo *repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	userDTOs := make([]dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTOs = append(userDTOs, dto.ToUserDTO(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": userDTOs})
}

// Get handles GET /users/:username, returning the profile with created
// quiz ids and aggregated scores.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userRepo.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDetailDTO(user)})
}

// Update handles PATCH /users/:username.
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.Update(c.Request.Context(), c.Param("username"), req.Fields())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(user)})
}

// Remove handles DELETE /users/:username.
func (h *UserHandler) Remove(c *gin.Context) {
	username := c.Param("username")

	if err := h.userRepo.Remove(c.Request.Context(), username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// RecordScore handles POST /users/:username/quizzes/:id, recording an
// attempt score for the quiz.
func (h *UserHandler) RecordScore(c *gin.Context) {
	quizID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	var req dto.RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	attempt, err := h.userRepo.RecordScore(c.Request.Context(), c.Param("username"), quizID, *req.Score)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": dto.ToScoreRecordedDTO(attempt)})
}
