package handlers

import (
	"net/http"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// ListVotes godoc
// @Summary List my votes
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Page[models.VoteResponse]
// @Router /votes [get]
func (h *VoteHandler) List(c *gin.Context) {
	params := listParams(c)
	votes, total, err := h.votes.ListMine(c.Request.Context(), currentUser(c), params)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]models.VoteResponse, 0, len(votes))
	for i := range votes {
		out = append(out, services.VoteToResponse(&votes[i]))
	}
	c.JSON(http.StatusOK, response.NewPage(c, total, params.Page, params.PageSize, out))
}

// CastVote godoc
// @Summary Cast a vote
// @Description One vote per user per question
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CastVoteRequest true "Question and option slugs"
// @Success 201 {object} models.VoteResponse
// @Failure 400 {object} models.ErrorResponse "Already voted, poll closed or option mismatch"
// @Failure 404 {object} models.ErrorResponse
// @Router /votes [post]
func (h *VoteHandler) Cast(c *gin.Context) {
	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.votes.Cast(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.VoteToResponse(v))
}

// GetVote godoc
// @Summary Get one of my votes
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Vote slug"
// @Success 200 {object} models.VoteResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /votes/{slug} [get]
func (h *VoteHandler) Get(c *gin.Context) {
	v, err := h.votes.Get(c.Request.Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.VoteToResponse(v))
}

// DeleteVote godoc
// @Summary Withdraw a vote
// @Tags votes
// @Security BearerAuth
// @Param slug path string true "Vote slug"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /votes/{slug} [delete]
func (h *VoteHandler) Delete(c *gin.Context) {
	if err := h.votes.Delete(c.Request.Context(), currentUser(c), c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
