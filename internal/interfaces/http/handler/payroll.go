package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppayroll "github.com/fabworks/backend/internal/application/payroll"
	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/interfaces/http/dto"
)

// PayrollHandler exposes remote payroll posting
type PayrollHandler struct {
	BaseHandler
	poster *apppayroll.Poster
}

// NewPayrollHandler creates the payroll handler
func NewPayrollHandler(poster *apppayroll.Poster) *PayrollHandler {
	return &PayrollHandler{poster: poster}
}

// RegisterRoutes registers payroll routes
func (h *PayrollHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/payroll")
	{
		group.POST("/postings", h.PostWeek)
	}
}

// PostWeek posts one staff member's week of time entries to the remote payroll
// system. Re-posting the same week replaces the previous remote state.
// POST /api/v1/payroll/postings
func (h *PayrollHandler) PostWeek(c *gin.Context) {
	var req dto.PostWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		h.BadRequest(c, "Invalid staff id")
		return
	}

	result, err := h.poster.PostWeek(c.Request.Context(), staffID, req.StaffRemoteID, req.WeekEnding)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrPayPeriodLocked):
			h.Conflict(c, dto.ErrCodePayrollLocked,
				"Pay period is posted and locked; nothing was written")
		case errors.Is(err, sync.ErrRemoteRateLimited):
			h.ErrorWithCode(c, dto.ErrCodeRateLimited, "Remote system rate limit exceeded, retry later")
		case errors.Is(err, sync.ErrRemoteUnavailable):
			h.ErrorWithCode(c, dto.ErrCodeRemoteUnavailable, "Remote system is unavailable")
		case errors.Is(err, sync.ErrRemoteAuth):
			h.ErrorWithCode(c, dto.ErrCodeRemoteAuth, "Remote system rejected our credentials")
		default:
			h.HandleError(c, err)
		}
		return
	}
	h.Success(c, result)
}
