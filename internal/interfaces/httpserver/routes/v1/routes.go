package v1

import (
	"github.com/gin-gonic/gin"

	"fee-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	group.POST("/chat", r.handlers.Chat.PostTurn)
	group.POST("/files", r.handlers.Upload.Upload)
	group.GET("/conversations", r.handlers.Conversation.List)
	group.GET("/conversations/:id", r.handlers.Conversation.Get)
}
