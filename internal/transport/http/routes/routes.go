package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/infra/config"
	"github.com/Velroxe/Khatri-College/internal/transport/http/handlers"
	"github.com/Velroxe/Khatri-College/internal/transport/http/middleware"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	AdminAuth   *usecase.AuthService
	StudentAuth *usecase.AuthService
	Admins      *usecase.AdminService
	Students    *usecase.StudentService
	Courses     *usecase.CourseService
	Catalog     *usecase.CatalogService
	Dashboard   *usecase.DashboardService
	Cleanup     *usecase.CleanupService
	Contact     *usecase.ContactService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Metrics  *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cookies := middleware.NewCookieSettings(
		deps.Config.Cookie.Domain,
		deps.Config.App.IsProduction(),
		deps.Services.AdminAuth.AccessTokenTTL(),
		deps.Services.AdminAuth.RefreshTokenTTL(),
	)

	adminSession := middleware.RequireSession(deps.Services.AdminAuth, cookies)
	studentSession := middleware.RequireSession(deps.Services.StudentAuth, cookies)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		registerAuthRoutes(authGroup.Group("/admin"), deps.Services.AdminAuth, cookies, adminSession)
		registerAuthRoutes(authGroup.Group("/student"), deps.Services.StudentAuth, cookies, studentSession)

		adminHandler := handlers.NewAdminHandler(deps.Services.Admins)
		adminGroup := api.Group("/admins")
		adminGroup.Use(adminSession)
		adminGroup.GET("", adminHandler.List)
		adminGroup.POST("", adminHandler.Create)
		adminGroup.PUT("/:id", adminHandler.Update)
		adminGroup.DELETE("/:id", adminHandler.Delete)

		studentHandler := handlers.NewStudentHandler(deps.Services.Students)
		studentGroup := api.Group("/students")
		studentGroup.Use(adminSession)
		studentGroup.GET("", studentHandler.List)
		studentGroup.GET("/:id", studentHandler.Get)
		studentGroup.POST("", studentHandler.Create)
		studentGroup.PUT("/:id", studentHandler.Update)
		studentGroup.DELETE("/:id", studentHandler.Delete)

		courseHandler := handlers.NewCourseHandler(deps.Services.Courses)
		courseGroup := api.Group("/courses")
		courseGroup.Use(adminSession)
		courseGroup.GET("", courseHandler.List)
		courseGroup.GET("/:id", courseHandler.Get)
		courseGroup.POST("", courseHandler.Create)
		courseGroup.PUT("/:id", courseHandler.Update)
		courseGroup.DELETE("/:id", courseHandler.Delete)
		courseGroup.GET("/:id/students", courseHandler.Students)
		courseGroup.POST("/:id/students", courseHandler.Enroll)
		courseGroup.DELETE("/:id/students/:studentId", courseHandler.Unenroll)
		courseGroup.GET("/:id/documents", courseHandler.Documents)
		courseGroup.POST("/:id/documents", courseHandler.AddDocument)
		courseGroup.DELETE("/:id/documents/:documentId", courseHandler.DeleteDocument)

		catalogHandler := handlers.NewCatalogHandler(deps.Services.Catalog)
		facultyGroup := api.Group("/faculties")
		facultyGroup.GET("", catalogHandler.ListFaculties)
		facultyGroup.GET("/:id", catalogHandler.GetFaculty)
		facultyGroup.POST("", adminSession, catalogHandler.CreateFaculty)
		facultyGroup.PUT("/:id", adminSession, catalogHandler.UpdateFaculty)
		facultyGroup.DELETE("/:id", adminSession, catalogHandler.DeleteFaculty)

		scholarGroup := api.Group("/scholars")
		scholarGroup.GET("", catalogHandler.ListScholars)
		scholarGroup.GET("/:id", catalogHandler.GetScholar)
		scholarGroup.POST("", adminSession, catalogHandler.CreateScholar)
		scholarGroup.PUT("/:id", adminSession, catalogHandler.UpdateScholar)
		scholarGroup.DELETE("/:id", adminSession, catalogHandler.DeleteScholar)

		dashboardHandler := handlers.NewDashboardHandler(deps.Services.Dashboard)
		api.GET("/dashboard", adminSession, dashboardHandler.Stats)

		cleanupHandler := handlers.NewCleanupHandler(deps.Services.Cleanup)
		api.DELETE("/cleanup", adminSession, cleanupHandler.Purge)

		contactHandler := handlers.NewContactHandler(deps.Services.Contact)
		api.POST("/contact", contactHandler.Submit)
	}

	return r
}

// registerAuthRoutes wires the auth endpoints for one principal kind. The
// admin and student route trees are identical apart from which service and
// cookie pair they operate on.
func registerAuthRoutes(g *gin.RouterGroup, auth *usecase.AuthService, cookies middleware.CookieSettings, session gin.HandlerFunc) {
	h := handlers.NewAuthHandler(auth, cookies)

	g.POST("/login-password", h.LoginPassword)
	g.POST("/login-otp", h.LoginOTP)
	g.POST("/send-otp", h.SendOTP)
	g.POST("/verify-otp", h.VerifyOTP)
	g.POST("/forgot-password", h.ForgotPassword)
	g.PATCH("/change-password", session, h.ChangePassword)
	g.POST("/refresh", h.Refresh)
	g.GET("/me", h.Me)
	g.POST("/logout", h.Logout)
}
