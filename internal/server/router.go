// Package server assembles the HTTP routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/auth"
	"github.com/eduportal/backend/internal/conflicts"
	"github.com/eduportal/backend/internal/courses"
	"github.com/eduportal/backend/internal/dashboard"
	"github.com/eduportal/backend/internal/middleware"
	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/realtime"
	"github.com/eduportal/backend/internal/registrations"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/users"
	"github.com/eduportal/backend/pkg/response"
)

// Deps are the services the router needs.
type Deps struct {
	Store          *storage.Store
	JWT            *auth.JWTService
	Hub            *realtime.Hub
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authHandler := auth.NewHandler(d.Store, d.JWT, logger)
	courseHandler := courses.NewHandler(d.Store, logger)
	registrationHandler := registrations.NewHandler(d.Store, logger)
	userHandler := users.NewHandler(d.Store, logger)
	conflictHandler := conflicts.NewHandler(d.Store, logger)
	dashboardHandler := dashboard.NewHandler(d.Store, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}
	router.GET("/courses", courseHandler.List)
	router.POST("/schedule/parse", conflictHandler.Parse)

	// Signed in
	api := router.Group("")
	api.Use(middleware.JWT(d.JWT))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/session", authHandler.Session)

		api.GET("/me/registrations", registrationHandler.Mine)
		api.POST("/me/registrations", registrationHandler.Create)
		api.GET("/me/schedule", conflictHandler.MySchedule)
		api.GET("/me/dashboard", dashboardHandler.Student)
	}

	// Admin
	admin := api.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/courses", courseHandler.Create)
		admin.PATCH("/courses/:id", courseHandler.Update)
		admin.DELETE("/courses/:id", courseHandler.Delete)

		admin.GET("/users", userHandler.List)
		admin.GET("/users/students", userHandler.Students)
		admin.PATCH("/users/:id/status", userHandler.UpdateStatus)

		admin.GET("/registrations", registrationHandler.List)
		admin.PATCH("/registrations/:id/status", registrationHandler.UpdateStatus)

		admin.GET("/conflicts", conflictHandler.List)
		admin.POST("/conflicts/:id/resolve", conflictHandler.Resolve)

		admin.GET("/admin/dashboard", dashboardHandler.Admin)
	}

	// WebSocket (token in query; no Authorization header required)
	if d.Hub != nil {
		router.GET("/ws", realtime.ServeWs(d.Hub, logger, func(token string) (realtime.Identity, error) {
			claims, err := d.JWT.Validate(token)
			if err != nil {
				return realtime.Identity{}, err
			}
			return realtime.Identity{Email: claims.Email, Role: claims.Role}, nil
		}))
	}

	return router
}
