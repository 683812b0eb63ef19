package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/interfaces/http/dto"
)

// SyncRunner runs one sync pass. Satisfied by the sync orchestrator.
type SyncRunner interface {
	Run(ctx context.Context, opts appsync.Options) (*sync.RunResult, error)
}

// SyncHinter exposes the background trigger's early-run hint and last result.
// Satisfied by the scheduler's sync trigger.
type SyncHinter interface {
	Hint() error
	LastRun() (*sync.RunResult, time.Time)
}

// SyncHandler exposes sync runs, watermarks and the error audit trail
type SyncHandler struct {
	BaseHandler
	runner     SyncRunner
	hinter     SyncHinter
	watermarks sync.WatermarkRepository
	audit      *appsync.AuditGateway
}

// NewSyncHandler creates the sync handler. hinter may be nil when the
// background trigger is disabled.
func NewSyncHandler(runner SyncRunner, hinter SyncHinter, watermarks sync.WatermarkRepository, audit *appsync.AuditGateway) *SyncHandler {
	return &SyncHandler{
		runner:     runner,
		hinter:     hinter,
		watermarks: watermarks,
		audit:      audit,
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sync")
	{
		group.POST("/runs", h.Run)
		group.POST("/hint", h.Hint)
		group.GET("/runs/last", h.LastRun)
		group.GET("/watermarks", h.ListWatermarks)
		group.GET("/errors", h.ListErrors)
	}
}

// Run triggers a synchronous sync run and returns its per-type results.
// POST /api/v1/sync/runs
func (h *SyncHandler) Run(c *gin.Context) {
	var req dto.RunSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	var opts appsync.Options
	if req.EntityType != nil {
		entityType := sync.EntityType(*req.EntityType)
		if !entityType.IsValid() {
			h.BadRequest(c, "Unknown entity type: "+*req.EntityType)
			return
		}
		opts.EntityType = &entityType
	}
	if req.Window != nil {
		opts.Window = &sync.Window{Start: req.Window.Start, End: req.Window.End}
	}

	result, err := h.runner.Run(c.Request.Context(), opts)
	if err != nil {
		// Run's error return is reserved for invalid options
		if errors.Is(err, sync.ErrInvalidEntityType) || errors.Is(err, sync.ErrInvalidWindow) {
			h.BadRequest(c, err.Error())
			return
		}
		h.InternalError(c, "Sync run failed to start")
		return
	}

	errorRecords, err := h.audit.CountSince(c.Request.Context(), result.StartedAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.RunResponse{RunResult: result, ErrorRecords: errorRecords})
}

// Hint asks the background trigger to run a pass as soon as possible
// POST /api/v1/sync/hint
func (h *SyncHandler) Hint(c *gin.Context) {
	if h.hinter == nil {
		h.Conflict(c, dto.ErrCodeInvalidState, "Background sync trigger is disabled")
		return
	}
	if err := h.hinter.Hint(); err != nil {
		h.Conflict(c, dto.ErrCodeInvalidState, "Background sync trigger is not running")
		return
	}
	h.Accepted(c, gin.H{"hinted": true})
}

// LastRun returns the most recent background run result
// GET /api/v1/sync/runs/last
func (h *SyncHandler) LastRun(c *gin.Context) {
	if h.hinter == nil {
		h.Conflict(c, dto.ErrCodeInvalidState, "Background sync trigger is disabled")
		return
	}
	result, finishedAt := h.hinter.LastRun()
	resp := dto.LastRunResponse{Result: result}
	if !finishedAt.IsZero() {
		resp.FinishedAt = &finishedAt
	}
	h.Success(c, resp)
}

// ListWatermarks returns per-entity-type sync state
// GET /api/v1/sync/watermarks
func (h *SyncHandler) ListWatermarks(c *gin.Context) {
	watermarks, err := h.watermarks.GetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]dto.WatermarkResponse, 0, len(watermarks))
	for _, w := range watermarks {
		out = append(out, dto.WatermarkResponseFromDomain(w))
	}
	h.Success(c, out)
}

// ListErrors returns the sync error audit trail, newest first
// GET /api/v1/sync/errors
func (h *SyncHandler) ListErrors(c *gin.Context) {
	var req dto.ListErrorRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := sync.ErrorRecordFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Kind != "" {
		kind := sync.ErrorKind(req.Kind)
		if !kind.IsValid() {
			h.BadRequest(c, "Unknown error kind: "+req.Kind)
			return
		}
		filter.Kind = &kind
	}
	if req.EntityType != "" {
		entityType := sync.EntityType(req.EntityType)
		if !entityType.IsValid() {
			h.BadRequest(c, "Unknown entity type: "+req.EntityType)
			return
		}
		filter.EntityType = &entityType
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			h.BadRequest(c, "Invalid since timestamp, expected RFC 3339")
			return
		}
		filter.Since = &since
	}

	records, total, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]dto.ErrorRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ErrorRecordResponseFromDomain(r))
	}
	h.SuccessWithMeta(c, out, total, req.Page, req.PageSize)
}
