package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/handler"
	"github.com/blacksiege/stms-backend/internal/middleware"
	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/service"
	"github.com/blacksiege/stms-backend/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Admin         *handler.AdminHandler
	StudentMgmt   *handler.StudentManagementHandler
	Test          *handler.TestHandler
	StudentPortal *handler.StudentPortalHandler
	WS            *handler.WSHandler
	System        *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	sessions *session.Manager,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.POST("/student/login", handlers.Auth.StudentLogin)

		// Authenticated session routes
		// Logout skips the live-session check so it stays idempotent.
		auth.POST("/logout", middleware.RequireAnyJWT(authService), handlers.Auth.Logout)
		auth.GET("/student/me",
			middleware.RequireStudentJWT(authService),
			middleware.RequireLiveSession(sessions),
			handlers.Auth.StudentMe)
	}

	// ─── 2. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAdminJWT(authService),
		middleware.RequireLiveSession(sessions),
	)
	{
		adminAPI.PUT("/password", handlers.Admin.ChangePassword)

		adminAPI.GET("/students", handlers.StudentMgmt.ListStudents)
		adminAPI.POST("/students", handlers.StudentMgmt.CreateStudent)
		adminAPI.PUT("/students/:code", handlers.StudentMgmt.UpdateStudent)
		adminAPI.DELETE("/students/:code", handlers.StudentMgmt.DeleteStudent)

		adminAPI.GET("/tests", handlers.Test.ListTests)
		adminAPI.POST("/tests", handlers.Test.CreateTest)
		adminAPI.GET("/tests/:id", handlers.Test.GetTest)
		adminAPI.PUT("/tests/:id", handlers.Test.UpdateTest)
		adminAPI.DELETE("/tests/:id", handlers.Test.DeleteTest)
		adminAPI.GET("/tests/:id/results", handlers.Test.TestResults)

		adminAPI.GET("/backup/export", handlers.Admin.ExportBackup)
		adminAPI.POST("/backup/import", handlers.Admin.ImportBackup)
	}

	// ─── 3. Student Group (Student JWT) ────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.RequireLiveSession(sessions),
	)
	{
		studentAPI.GET("/dashboard", handlers.StudentPortal.Dashboard)
		studentAPI.GET("/state", handlers.StudentPortal.State)
		studentAPI.POST("/back", handlers.StudentPortal.Back)
		studentAPI.POST("/abandon", handlers.StudentPortal.Abandon)
		studentAPI.POST("/result/acknowledge", handlers.StudentPortal.AcknowledgeResult)

		studentAPI.POST("/tests/:id/select", handlers.StudentPortal.SelectTest)
		studentAPI.POST("/tests/:id/start", handlers.StudentPortal.StartTest)
		studentAPI.POST("/tests/:id/answers", handlers.StudentPortal.Answer)
		studentAPI.POST("/tests/:id/submit", handlers.StudentPortal.SubmitTest)
	}

	// ─── 4. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireStudentWSAuth(authService),
		middleware.RequireLiveSession(sessions),
	)
	{
		ws.GET("/student/tests/:id/stream", handlers.WS.TestStream)
	}

	return router
}
