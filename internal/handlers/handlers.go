// Package handlers maps repository results and failures onto the HTTP
// surface. The error taxonomy translation happens here and nowhere
// else: NotFound → 404, BadRequest → 400, Unauthorized → 401, anything
// uncategorized → 500.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/internal/apperr"
	"github.com/jermer/quizzly-backend/internal/dto"
)

func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		dto.JsonError(c, http.StatusNotFound, err.Error())
	case apperr.IsBadRequest(err):
		dto.JsonError(c, http.StatusBadRequest, err.Error())
	case apperr.IsUnauthorized(err):
		dto.JsonError(c, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("Request error: %v", err)
		dto.JsonError(c, http.StatusInternalServerError)
	}
}
