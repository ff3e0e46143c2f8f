package handlers

import (
	"poll-service/internal/services"
	"poll-service/internal/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader *gorilla.Upgrader
	polls    *services.PollService
	agg      *services.AggregationService
	logger   *zap.Logger
}

func NewWSHandler(hub *websocket.Hub, allowedOrigins []string, polls *services.PollService, agg *services.AggregationService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		upgrader: websocket.NewUpgrader(allowedOrigins),
		polls:    polls,
		agg:      agg,
		logger:   logger,
	}
}

// PollResults godoc
// @Summary Live poll results
// @Description Upgrades to a WebSocket that receives the current results and every re-aggregation
// @Tags websocket
// @Param slug path string true "Poll slug"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} models.ErrorResponse
// @Router /ws/polls/{slug}/results [get]
func (h *WSHandler) PollResults(c *gin.Context) {
	poll, err := h.polls.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	var initial []byte
	if res, err := h.agg.Results(c.Request.Context(), poll); err == nil {
		initial, _ = websocket.NewResultsMessage(poll.ID, res)
	} else {
		h.logger.Warn("initial results unavailable", zap.Uint("poll_id", poll.ID), zap.Error(err))
	}

	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request, poll.ID, initial)
}
