package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fee-server/internal/domain/chat"
	"fee-server/internal/infrastructure/metrics"
	"fee-server/internal/interfaces/httpserver/requests"
	"fee-server/internal/interfaces/httpserver/responses"
)

// ChatHandler exposes the chat turn endpoint.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

// PostTurn runs one chat turn: persist the user message, assemble the
// context, invoke the model and persist the reply.
func (h *ChatHandler) PostTurn(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.TurnsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "message is required"})
		return
	}

	result, err := h.service.RunTurn(c.Request.Context(), chat.TurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		FileIDs:        req.FileIDs,
	})
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("chat turn failed")
		responses.HandleError(c, err, "chat failed")
		return
	}

	metrics.TurnsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, responses.BuildChatResponse(result))
}
