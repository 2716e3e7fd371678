package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/internal/interfaces/http/handlers"
	"tutorhub.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler      *handlers.AuthHandler
	profileHandler   *handlers.ProfileHandler
	courseHandler    *handlers.CourseHandler
	tutoringHandler  *handlers.TutoringHandler
	dashboardHandler *handlers.DashboardHandler
	adminHandler     *handlers.AdminHandler
	resolver         middleware.SessionResolver
	enforcer         middleware.Enforcer
	loginURL         string
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoutes(r *gin.Engine, h *handlers.HealthHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	requireSession := []gin.HandlerFunc{
		middleware.SessionMiddleware(d.resolver),
		middleware.AuthorizeMiddleware(d.enforcer),
	}

	// Role dashboards (pages: redirect to login instead of failing)
	for _, role := range entities.Roles {
		r.GET(entities.RedirectFor(role).URL,
			middleware.DashboardMiddleware(d.resolver, role, d.loginURL),
			d.dashboardHandler.Show(role),
		)
	}

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.IdempotencyMiddleware(), d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", middleware.OptionalSessionMiddleware(d.resolver), d.authHandler.Logout)
		}

		// Auth routes (protected)
		authSession := v1.Group("/auth", requireSession...)
		{
			authSession.GET("/me", d.authHandler.Me)
			authSession.POST("/change-password", d.authHandler.ChangePassword)
		}

		profile := v1.Group("/profile", requireSession...)
		{
			profile.GET("", d.profileHandler.GetOverview)
			profile.GET("/role", d.profileHandler.GetRoleProfile)
			profile.PUT("/role", d.profileHandler.UpdateRoleProfile)
			profile.GET("/contact", d.profileHandler.GetContact)
			profile.PUT("/contact", d.profileHandler.UpdateContact)
		}

		courses := v1.Group("/courses", requireSession...)
		{
			courses.POST("", middleware.IdempotencyMiddleware(), d.courseHandler.Create)
			courses.GET("/mine", d.courseHandler.ListMine)
			courses.GET("/enrolled", d.courseHandler.ListEnrolled)
			courses.POST("/:id/enroll", d.courseHandler.Enroll)
			courses.POST("/:id/sessions", d.tutoringHandler.Schedule)
			courses.GET("/:id/sessions", d.tutoringHandler.ListForCourse)
		}

		sessions := v1.Group("/sessions", requireSession...)
		{
			sessions.GET("/mine", d.tutoringHandler.ListMine)
			sessions.GET("/booked", d.tutoringHandler.ListBooked)
			sessions.PUT("/:id/status", d.tutoringHandler.UpdateStatus)
			sessions.POST("/:id/book", d.tutoringHandler.Book)
			sessions.DELETE("/:id/book", d.tutoringHandler.CancelBooking)
			sessions.POST("/:id/attendance", d.tutoringHandler.RecordAttendance)
			sessions.GET("/:id/attendance", d.tutoringHandler.ListAttendance)
		}

		admin := v1.Group("/admin", requireSession...)
		{
			admin.POST("/profiles", d.adminHandler.CreateProfile)
			admin.GET("/accounts/:id", d.adminHandler.GetAccount)
			admin.PUT("/accounts/:id/role", d.adminHandler.UpdateRole)
			admin.PUT("/accounts/:id/status", d.adminHandler.UpdateStatus)
			admin.PUT("/accounts/:id/approve", d.adminHandler.ApproveTutor)
			admin.DELETE("/accounts/:id", d.adminHandler.DeleteAccount)
			admin.POST("/accounts/:id/profiles", d.adminHandler.CreateRoleProfile)
			admin.DELETE("/accounts/:id/profiles/:role", d.adminHandler.DeleteRoleProfile)
		}
	}
}
