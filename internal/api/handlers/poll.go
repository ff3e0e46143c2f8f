package handlers

import (
	"net/http"
	"time"

	"poll-service/internal/api/middleware"
	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls  *services.PollService
	agg    *services.AggregationService
	notify *services.NotificationService
}

func NewPollHandler(polls *services.PollService, agg *services.AggregationService, notify *services.NotificationService) *PollHandler {
	return &PollHandler{polls: polls, agg: agg, notify: notify}
}

// ListPolls godoc
// @Summary List polls
// @Tags polls
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Param is_active query bool false "Filter by active flag"
// @Param search query string false "Search title and description"
// @Param ordering query string false "created_at, -created_at, title, -title, start_date, -start_date"
// @Success 200 {object} models.Page[models.PollResponse]
// @Router /polls [get]
func (h *PollHandler) List(c *gin.Context) {
	params := listParams(c)
	polls, total, err := h.polls.List(c.Request.Context(), params)
	if err != nil {
		handleError(c, err)
		return
	}
	now := time.Now()
	out := make([]models.PollResponse, 0, len(polls))
	for i := range polls {
		out = append(out, polls[i].ToResponse(now))
	}
	c.JSON(http.StatusOK, response.NewPage(c, total, params.Page, params.PageSize, out))
}

// CreatePoll godoc
// @Summary Create a poll
// @Description Creates a poll, optionally with nested questions and options
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePollRequest true "Poll"
// @Success 201 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /polls [post]
func (h *PollHandler) Create(c *gin.Context) {
	var req models.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	poll, err := h.polls.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll.ToResponse(time.Now()))
}

// GetPoll godoc
// @Summary Get a poll
// @Description Returns a poll with its questions and records a view
// @Tags polls
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.PollResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{slug} [get]
func (h *PollHandler) Get(c *gin.Context) {
	var viewer *uint
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}
	poll, err := h.polls.View(c.Request.Context(), c.Param("slug"), viewer)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll.ToResponse(time.Now()))
}

// UpdatePoll godoc
// @Summary Update a poll
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Param request body models.UpdatePollRequest true "Fields to change"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{slug} [put]
// @Router /polls/{slug} [patch]
func (h *PollHandler) Update(c *gin.Context) {
	var req models.UpdatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	poll, err := h.polls.Update(c.Request.Context(), currentUser(c), c.Param("slug"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll.ToResponse(time.Now()))
}

// DeletePoll godoc
// @Summary Delete a poll
// @Tags polls
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{slug} [delete]
func (h *PollHandler) Delete(c *gin.Context) {
	if err := h.polls.Delete(c.Request.Context(), currentUser(c), c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PollResults godoc
// @Summary Poll results
// @Description Cached tally when available, live counts otherwise
// @Tags polls
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.PollResults
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{slug}/results [get]
func (h *PollHandler) Results(c *gin.Context) {
	poll, err := h.polls.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	res, err := h.agg.Results(c.Request.Context(), poll)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RefreshResults godoc
// @Summary Recompute poll results
// @Description Queues vote aggregation for the poll
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Success 202 {object} map[string]string
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{slug}/results/refresh [post]
func (h *PollHandler) RefreshResults(c *gin.Context) {
	poll, err := h.agg.RequestRefresh(c.Request.Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "poll": poll.Slug})
}

// NotifyPoll godoc
// @Summary Notify about a poll
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Param request body models.NotifyRequest true "Notification type"
// @Success 202 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /polls/{slug}/notify [post]
func (h *PollHandler) Notify(c *gin.Context) {
	var req models.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.notify.Request(c.Request.Context(), currentUser(c), c.Param("slug"), services.NotificationType(req.Type))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
