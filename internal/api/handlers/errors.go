package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"poll-service/internal/api/middleware"
	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrInvalidFormat),
		errors.Is(err, services.ErrInvalidEventType),
		errors.Is(err, services.ErrOptionMismatch),
		errors.Is(err, services.ErrPollClosed),
		errors.Is(err, services.ErrAlreadyVoted):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPollNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrOptionNotFound),
		errors.Is(err, services.ErrVoteNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPollUnavailable):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrNoProvider),
		errors.Is(err, services.ErrVectorStoreDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleError writes err as an ErrorResponse. Internal errors are recorded
// on the context for the request logger and not echoed to the client.
func handleError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		response.Error(c, code, "", "")
		return
	}
	response.Error(c, code, err.Error(), "")
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
}

// currentUser returns the authenticated user id; routes guarded by
// RequireAuth always have one.
func currentUser(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}

func listParams(c *gin.Context) models.ListParams {
	page, size := response.PageParams(c)
	p := models.ListParams{
		Page:     page,
		PageSize: size,
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	}
	if v, err := strconv.ParseBool(c.Query("is_active")); err == nil {
		p.IsActive = &v
	}
	return p
}
