package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service error types onto HTTP statuses:
// validation problems are 400, missing records 404, and state conflicts
// (illegal transitions, concurrent updates, forbidden operations) 409.
// Budget rejections carry the structured violation list in the body.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var transitionErr *service.InvalidTransitionError
	var stateErr *service.InvalidStateError
	var limitsErr *service.ExceededLimitsError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.As(err, &limitsErr):
		resp := response.Error(http.StatusBadRequest, err.Error())
		resp.Data = map[string]interface{}{"violations": limitsErr.Violations}
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)
	return userIDStr
}
