package handlers

import (
	"net/http"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/flow"
	"github.com/velasquezhn3/vj-sub000/utils"

	"github.com/gin-gonic/gin"
)

// MessageHandler receives inbound messages from the chat-channel transport.
type MessageHandler struct {
	Orchestrator flow.FlowOrchestrator
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(orchestrator flow.FlowOrchestrator) *MessageHandler {
	return &MessageHandler{Orchestrator: orchestrator}
}

// HandleIncomingMessage accepts one inbound text or media message and runs it
// through the conversation flow.
func (h *MessageHandler) HandleIncomingMessage(c *gin.Context) {
	var msg models.IncomingMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid message payload", err.Error())
		return
	}
	if msg.SubjectID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid message payload", "subject_id is required")
		return
	}

	if err := h.Orchestrator.HandleIncoming(c.Request.Context(), msg); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
