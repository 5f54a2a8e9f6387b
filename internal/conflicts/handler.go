package conflicts

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/middleware"
	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/schedule"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/pkg/response"
)

// ParseRequest is the body for POST /schedule/parse.
type ParseRequest struct {
	Time string `json:"time"`
}

// ParseResponse reports whether a course time is understood and how it normalizes.
type ParseResponse struct {
	Valid bool              `json:"valid"`
	Range *models.TimeRange `json:"range"`
	Hint  string            `json:"hint,omitempty"`
}

// Handler handles conflict and schedule endpoints.
type Handler struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewHandler creates a conflicts handler.
func NewHandler(store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Parse handles POST /schedule/parse. An unparseable time is a normal answer, not an error.
func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	tr, ok := schedule.ParseTimeRange(req.Time)
	if !ok {
		response.OK(c, ParseResponse{Hint: validation.CourseTimeHint})
		return
	}
	response.OK(c, ParseResponse{Valid: true, Range: &tr})
}

// List handles GET /conflicts (admin).
func (h *Handler) List(c *gin.Context) {
	reports, err := h.store.ConflictReports(c.Request.Context())
	if err != nil {
		h.logger.Error("list conflicts", zap.Error(err))
		response.Internal(c, "failed to list conflicts")
		return
	}
	response.OK(c, reports)
}

// Resolve handles POST /conflicts/:id/resolve (admin).
func (h *Handler) Resolve(c *gin.Context) {
	res, err := h.store.ResolveConflict(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("resolve conflict", zap.Error(err))
		response.Internal(c, "failed to resolve conflict")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.NoContent(c)
}

// MySchedule handles GET /me/schedule.
func (h *Handler) MySchedule(c *gin.Context) {
	sched, err := h.store.StudentSchedule(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		h.logger.Error("load schedule", zap.Error(err))
		response.Internal(c, "failed to load schedule")
		return
	}
	response.OK(c, sched)
}
