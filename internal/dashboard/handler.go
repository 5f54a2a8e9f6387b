package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/middleware"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/pkg/response"
)

// Handler serves the admin and student dashboards.
type Handler struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Admin handles GET /admin/dashboard.
func (h *Handler) Admin(c *gin.Context) {
	sum, err := h.store.AdminSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("admin dashboard", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, sum)
}

// Student handles GET /me/dashboard.
func (h *Handler) Student(c *gin.Context) {
	sum, err := h.store.StudentSummary(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		h.logger.Error("student dashboard", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, sum)
}
