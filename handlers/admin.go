package handlers

import (
	"context"
	"net/http"

	"github.com/velasquezhn3/vj-sub000/services/flow"
	"github.com/velasquezhn3/vj-sub000/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the administrative side-channel commands. Dashboard
// and authentication live outside this core; these endpoints are the narrow
// command boundary only.
type AdminHandler struct {
	Channel *flow.AdminChannel
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(channel *flow.AdminChannel) *AdminHandler {
	return &AdminHandler{Channel: channel}
}

type adminCommand func(ctx context.Context, ref flow.ReservationRef) (flow.AdminOutcome, error)

func (h *AdminHandler) run(c *gin.Context, cmd adminCommand) {
	var ref flow.ReservationRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid command payload", err.Error())
		return
	}
	if ref.ID == "" && ref.Phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid command payload", "reservation_id or phone is required")
		return
	}

	outcome, err := cmd(c.Request.Context(), ref)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Command failed", err.Error())
		return
	}

	status := http.StatusOK
	switch outcome {
	case flow.OutcomeNotFound:
		status = http.StatusNotFound
	case flow.OutcomeNotApplicable, flow.OutcomeNoAvailability:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"outcome": outcome})
}

// ConfirmReservationHandler confirms a pending/proofReceived reservation.
func (h *AdminHandler) ConfirmReservationHandler(c *gin.Context) {
	h.run(c, h.Channel.Confirm)
}

// RejectProofHandler clears the proof and cancels the reservation.
func (h *AdminHandler) RejectProofHandler(c *gin.Context) {
	h.run(c, h.Channel.RejectProof)
}

// ReadbackHandler pre-approves a reservation before proof arrives.
func (h *AdminHandler) ReadbackHandler(c *gin.Context) {
	h.run(c, h.Channel.Readback)
}
