package handlers

import (
	"net/http"
	"strconv"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	rag *services.RAGService
}

func NewAIHandler(rag *services.RAGService) *AIHandler {
	return &AIHandler{rag: rag}
}

// GeneratePoll godoc
// @Summary Draft a poll from a prompt
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GeneratePollRequest true "Prompt"
// @Success 200 {object} models.GeneratePollResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /ai/generate-poll [post]
func (h *AIHandler) GeneratePoll(c *gin.Context) {
	var req models.GeneratePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.rag.GeneratePollStructure(c.Request.Context(), req.Prompt)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			response.Error(c, http.StatusInternalServerError, "Failed to generate poll", err.Error())
			return
		}
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GenerateInsight godoc
// @Summary Ask a question about a poll
// @Description Answers from the poll's embedded results. The exchange is recorded.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateInsightRequest true "Poll slug and question"
// @Success 200 {object} models.InsightResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ai/insights/generate [post]
func (h *AIHandler) GenerateInsight(c *gin.Context) {
	var req models.GenerateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.rag.GenerateInsight(c.Request.Context(), currentUser(c), req.PollSlug, req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Ingest godoc
// @Summary Embed poll data
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IngestRequest true "Poll slug"
// @Success 200 {object} models.IngestResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /ai/ingest [post]
func (h *AIHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	n, err := h.rag.IngestPollData(c.Request.Context(), req.PollSlug)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IngestResponse{
		Message: "Successfully ingested poll " + req.PollSlug + " data into vector store",
		Chunks:  n,
	})
}

// History godoc
// @Summary Insight history for a poll
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Param limit query int false "Max entries (50)"
// @Success 200 {array} models.AnalysisRequestResponse
// @Router /ai/insights/history/{slug} [get]
func (h *AIHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.rag.History(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]models.AnalysisRequestResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].ToResponse())
	}
	c.JSON(http.StatusOK, out)
}
