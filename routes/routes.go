package routes

import (
	"github.com/velasquezhn3/vj-sub000/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the message webhook and the administrative side
// channel onto the router.
func RegisterRoutes(router *gin.Engine, messageHandler *handlers.MessageHandler, adminHandler *handlers.AdminHandler) {
	router.GET("/healthz", handlers.HealthHandler)

	router.POST("/webhook/message", messageHandler.HandleIncomingMessage)

	admin := router.Group("/admin/reservations")
	{
		admin.POST("/confirm", adminHandler.ConfirmReservationHandler)
		admin.POST("/reject-proof", adminHandler.RejectProofHandler)
		admin.POST("/readback", adminHandler.ReadbackHandler)
	}
}
