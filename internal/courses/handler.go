package courses

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/pkg/response"
)

// Handler handles course catalog endpoints.
type Handler struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewHandler creates a courses handler.
func NewHandler(store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /courses. Optional ?q= filters by name, faculty or time.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.SearchCourses(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("list courses", zap.Error(err))
		response.Internal(c, "failed to list courses")
		return
	}
	response.OK(c, list)
}

// Create handles POST /courses (admin).
func (h *Handler) Create(c *gin.Context) {
	var req models.CourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}
	res, err := h.store.AddCourse(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("add course", zap.Error(err))
		response.Internal(c, "failed to add course")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.Created(c, res.Course)
}

// Update handles PATCH /courses/:id (admin). Omitted fields are kept.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	var patch models.CoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.store.UpdateCourse(c.Request.Context(), id, patch)
	if err != nil {
		h.logger.Error("update course", zap.Int64("course_id", id), zap.Error(err))
		response.Internal(c, "failed to update course")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.OK(c, res.Course)
}

// Delete handles DELETE /courses/:id (admin). Registrations for the course are removed too.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	res, err := h.store.DeleteCourse(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete course", zap.Int64("course_id", id), zap.Error(err))
		response.Internal(c, "failed to delete course")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}
	response.NoContent(c)
}
