package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login. Role is the portal the caller is
// signing in to; "student" and "user" are the same portal.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	store  *storage.Store
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store *storage.Store, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req models.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	res, err := h.store.RegisterUser(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("register user", zap.Error(err))
		response.Internal(c, "failed to create account")
		return
	}
	if !res.OK {
		response.Error(c, res.HTTPStatus(), res.Message)
		return
	}

	token, err := h.jwt.Generate(res.User)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: res.User.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("authenticate user", zap.Error(err))
		response.Internal(c, "failed to sign in")
		return
	}
	if user == nil {
		response.Unauthorized(c, "Invalid email or password.")
		return
	}
	if user.Status == models.UserBlocked {
		response.Forbidden(c, "Your account is blocked by admin.")
		return
	}
	if strings.TrimSpace(req.Role) != "" && models.ParseRole(req.Role) != user.Role {
		response.Forbidden(c, fmt.Sprintf("This account is registered as %s. Please select %s.", user.Role, user.Role))
		return
	}

	if err := h.store.SetCurrentUser(ctx, user); err != nil {
		h.logger.Warn("store current user", zap.Error(err))
	}
	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	c.JSON(http.StatusOK, response.Body{Success: true, Data: TokenResponse{Token: token, User: user.ToPublic()}})
}

// Logout handles POST /auth/logout. Tokens are stateless; this clears the stored session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.store.SetCurrentUser(c.Request.Context(), nil); err != nil {
		h.logger.Error("clear current user", zap.Error(err))
		response.Internal(c, "failed to sign out")
		return
	}
	response.NoContent(c)
}

// Session handles GET /session. It returns the account behind the caller's token.
func (h *Handler) Session(c *gin.Context) {
	email := c.GetString("user_email")
	user, err := h.store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("load session user", zap.Error(err))
		response.Internal(c, "failed to load session")
		return
	}
	if user == nil {
		response.NotFound(c, "User not found.")
		return
	}
	response.OK(c, user.ToPublic())
}
