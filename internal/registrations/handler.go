package registrations

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/middleware"
	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/pkg/response"
)

// CreateRequest is the body for POST /me/registrations.
type CreateRequest struct {
	CourseID int64 `json:"courseId" binding:"required"`
}

// StatusRequest is the body for PATCH /registrations/:id/status.
type StatusRequest struct {
	Status models.RegistrationStatus `json:"status" binding:"required"`
}

// Handler handles registration endpoints.
type Handler struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Create handles POST /me/registrations. The student is taken from the token.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "courseId is required")
		return
	}
	res, err := h.store.CreateRegistration(c.Request.Context(), models.RegistrationRequest{
		UserEmail: middleware.UserEmail(c),
		CourseID:  req.CourseID,
	})
	if err != nil {
		h.logger.Error("create registration", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.Created(c, res.Registration)
}

// Mine handles GET /me/registrations.
func (h *Handler) Mine(c *gin.Context) {
	list, err := h.store.UserRegistrationsWithDetails(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		h.logger.Error("list own registrations", zap.Error(err))
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}

// List handles GET /registrations (admin). Optional ?status= filters by status.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.RegistrationsWithDetails(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations", zap.Error(err))
		response.Internal(c, "failed to list registrations")
		return
	}
	if status := models.RegistrationStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			response.BadRequest(c, "invalid status")
			return
		}
		filtered := make([]models.EnrichedRegistration, 0, len(list))
		for _, r := range list {
			if r.Status == status {
				filtered = append(filtered, r)
			}
		}
		list = filtered
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /registrations/:id/status (admin).
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	res, err := h.store.UpdateRegistrationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update registration status", zap.Int64("registration_id", id), zap.Error(err))
		response.Internal(c, "failed to update registration")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.OK(c, res.Registration)
}
