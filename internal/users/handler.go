package users

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/pkg/response"
)

// StatusRequest is the body for PATCH /users/:id/status.
type StatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

// Handler handles account administration endpoints.
type Handler struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /users. Passwords are never returned.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.Users(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	out := make([]models.UserPublic, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToPublic())
	}
	response.OK(c, out)
}

// Students handles GET /users/students: student accounts with approved courses and schedule.
func (h *Handler) Students(c *gin.Context) {
	list, err := h.store.StudentRosters(c.Request.Context())
	if err != nil {
		h.logger.Error("list students", zap.Error(err))
		response.Internal(c, "failed to list students")
		return
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /users/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	res, err := h.store.UpdateUserStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update user status", zap.Int64("user_id", id), zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.OK(c, res.User.ToPublic())
}
