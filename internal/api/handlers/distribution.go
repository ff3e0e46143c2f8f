package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/services"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the server-rendered pages.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type DistributionHandler struct {
	dist *services.DistributionService
}

func NewDistributionHandler(dist *services.DistributionService) *DistributionHandler {
	return &DistributionHandler{dist: dist}
}

func (h *DistributionHandler) logEvent(c *gin.Context, poll *models.Poll, t models.DistributionEventType, meta map[string]any) {
	h.dist.LogEvent(c.Request.Context(), models.DistributionEvent{
		PollID:    poll.ID,
		EventType: t,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		Metadata:  meta,
	})
}

// SharePage renders the public poll page with social metadata.
func (h *DistributionHandler) SharePage(c *gin.Context) {
	poll, err := h.dist.PublicPoll(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.String(statusFor(err), http.StatusText(statusFor(err)))
		return
	}
	h.logEvent(c, poll, models.EventLinkOpen, nil)
	c.HTML(http.StatusOK, "public_poll.html", gin.H{
		"Poll": poll,
		"Info": h.dist.Info(poll),
		"Open": poll.IsOpen(time.Now()),
	})
}

// PublicPoll godoc
// @Summary Get public poll detail
// @Description Poll information for anyone with the link. Logs LINK_OPEN.
// @Tags distribution
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.PublicPollResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /distribution/polls/{slug}/public [get]
func (h *DistributionHandler) PublicPoll(c *gin.Context) {
	poll, err := h.dist.PublicPoll(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	h.logEvent(c, poll, models.EventLinkOpen, nil)
	c.JSON(http.StatusOK, models.PublicPollResponse{
		Slug:        poll.Slug,
		Title:       poll.Title,
		Description: poll.Description,
		IsOpen:      poll.IsOpen(time.Now()),
	})
}

// QRCode godoc
// @Summary Poll QR code
// @Description PNG or SVG QR code for the poll's public URL. Logs QR_SCAN.
// @Tags distribution
// @Produce png
// @Produce image/svg+xml
// @Param slug path string true "Poll slug"
// @Param format query string false "png (default) or svg"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /distribution/polls/{slug}/qr [get]
func (h *DistributionHandler) QRCode(c *gin.Context) {
	format, err := services.ParseQRFormat(c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}
	poll, err := h.dist.PublicPoll(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	data, err := h.dist.QRCode(c.Request.Context(), poll, format)
	if err != nil {
		handleError(c, err)
		return
	}
	h.logEvent(c, poll, models.EventQRScan, nil)
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Embed godoc
// @Summary Poll embed details
// @Description Iframe snippet and canonical URLs. Logs EMBED_LOAD.
// @Tags distribution
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.DistributionInfo
// @Failure 404 {object} models.ErrorResponse
// @Router /distribution/polls/{slug}/embed [get]
func (h *DistributionHandler) Embed(c *gin.Context) {
	poll, err := h.dist.PublicPoll(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	h.logEvent(c, poll, models.EventEmbedLoad, nil)
	c.JSON(http.StatusOK, h.dist.Info(poll))
}

// Share godoc
// @Summary Record a social share
// @Tags distribution
// @Accept json
// @Param slug path string true "Poll slug"
// @Param request body models.ShareRequest false "Share platform"
// @Success 202 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /distribution/polls/{slug}/share [post]
func (h *DistributionHandler) Share(c *gin.Context) {
	var req models.ShareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	poll, err := h.dist.PublicPoll(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	var meta map[string]any
	if req.Platform != "" {
		meta = map[string]any{"platform": req.Platform}
	}
	h.logEvent(c, poll, models.EventSocialShare, meta)
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

// Analytics godoc
// @Summary Distribution analytics
// @Description Event totals and recent events for the poll's owner
// @Tags distribution
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Poll slug"
// @Param limit query int false "Recent events (max 100)"
// @Success 200 {object} models.DistributionAnalyticsResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /distribution/polls/{slug}/distribution/analytics [get]
func (h *DistributionHandler) Analytics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.dist.Analytics(c.Request.Context(), currentUser(c), c.Param("slug"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
