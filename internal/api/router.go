package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/votegrid/voter-platform/internal/api/handler"
	"github.com/votegrid/voter-platform/internal/api/middleware"
	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/service"
	"github.com/votegrid/voter-platform/internal/infrastructure/config"
	mongodb "github.com/votegrid/voter-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/votegrid/voter-platform/internal/infrastructure/db/redis"
	"github.com/votegrid/voter-platform/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("voterplatform"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	voterRepo := mongodb.NewVoterRepository(db)
	surveyRepo := mongodb.NewSurveyRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	sessionRepo := mongodb.NewImportSessionRepository(db)
	dashboardRepo := mongodb.NewDashboardRepository(db)
	familyRepo := mongodb.NewFamilyRepository(db)
	influencerRepo := mongodb.NewInfluencerRepository(db)
	issueRepo := mongodb.NewIssueRepository(db)
	rowStore := redisdb.NewRowStore(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	voterService := service.NewVoterService(voterRepo, userRepo, log)
	importService := service.NewImportService(sessionRepo, rowStore, voterRepo, userRepo, cfg.Import.RowTTL, log)
	surveyService := service.NewSurveyService(surveyRepo, voterRepo, userRepo, log)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	dashboardService := service.NewDashboardService(voterRepo, userRepo, surveyRepo, taskRepo, dashboardRepo, log)
	communityService := service.NewCommunityService(familyRepo, influencerRepo, issueRepo, voterRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	voterHandler := handler.NewVoterHandler(voterService)
	importHandler := handler.NewImportHandler(importService, cfg.Import.MaxUploadBytes)
	surveyHandler := handler.NewSurveyHandler(surveyService)
	taskHandler := handler.NewTaskHandler(taskService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	communityHandler := handler.NewCommunityHandler(communityService)

	auth := middleware.Auth(cfg.JWTSecret)
	anyRole := middleware.RBAC(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleKaryakarta)
	managers := middleware.RBAC(domain.RoleSuperAdmin, domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/bootstrap", authHandler.Bootstrap)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Account routes ---
	account := e.Group("/auth", auth)
	account.POST("/register", authHandler.Register, managers)
	account.GET("/me", authHandler.Me, anyRole)
	account.GET("/users", authHandler.ListUsers, managers)
	account.PUT("/users/:id/deactivate", authHandler.Deactivate, managers)

	// --- Voter directory ---
	voters := e.Group("/v1/voters", auth, anyRole)
	voters.GET("", voterHandler.List)
	voters.GET("/statistics", voterHandler.Stats)
	voters.GET("/:id", voterHandler.Get)
	voters.PUT("/:id/visited", voterHandler.MarkVisited)
	voters.PUT("/:id/voted", voterHandler.MarkVoted)
	voters.POST("", voterHandler.Create, managers)
	voters.PUT("/:id", voterHandler.Update, managers)
	voters.DELETE("/:id", voterHandler.Delete, managers)
	voters.POST("/assign", voterHandler.Assign, managers)
	voters.PUT("/bulk-update", voterHandler.BulkUpdate, managers)
	voters.GET("/export", voterHandler.Export, managers)

	// --- Bulk import ---
	imports := e.Group("/v1/import", auth, managers)
	imports.POST("/upload", importHandler.Upload)
	imports.POST("/map-columns", importHandler.Commit)
	imports.GET("/sessions", importHandler.Sessions)

	// --- Surveys ---
	surveys := e.Group("/v1/surveys", auth, anyRole)
	surveys.GET("/templates", surveyHandler.ListTemplates)
	surveys.GET("/templates/:id", surveyHandler.GetTemplate)
	surveys.POST("/templates", surveyHandler.CreateTemplate, managers)
	surveys.POST("/submit", surveyHandler.Submit)
	surveys.GET("/voter/:voter_id", surveyHandler.VoterSurveys)
	surveys.GET("/my-surveys", surveyHandler.MySurveys)
	surveys.GET("/statistics", surveyHandler.Statistics)

	// --- Tasks ---
	tasks := e.Group("/v1/tasks", auth, anyRole)
	tasks.POST("", taskHandler.Create, managers)
	tasks.GET("/my-tasks", taskHandler.MyTasks)
	tasks.PUT("/:id/status", taskHandler.UpdateStatus)

	// --- Dashboards ---
	dashboard := e.Group("/v1/dashboard", auth)
	dashboard.GET("/karyakarta", dashboardHandler.Karyakarta, middleware.RBAC(domain.RoleKaryakarta))
	dashboard.GET("/admin", dashboardHandler.Admin, middleware.RBAC(domain.RoleAdmin))
	dashboard.GET("/super-admin", dashboardHandler.SuperAdmin, middleware.RBAC(domain.RoleSuperAdmin))

	// --- Community ---
	community := e.Group("/v1", auth, anyRole)
	community.GET("/families", communityHandler.ListFamilies)
	community.GET("/families/:family_id", communityHandler.GetFamily)
	community.GET("/influencers", communityHandler.ListInfluencers)
	community.POST("/influencers", communityHandler.CreateInfluencer, managers)
	community.GET("/issues", communityHandler.ListIssues)
	community.POST("/issues", communityHandler.CreateIssue)
	community.PUT("/issues/:id/resolve", communityHandler.ResolveIssue)

	return e
}
