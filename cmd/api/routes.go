package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/StudyBeacon/physics-learn/api/swagger"
	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/models"
	"github.com/StudyBeacon/physics-learn/pkg/config"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/logger"
	corsmiddleware "github.com/StudyBeacon/physics-learn/pkg/middleware/cors"
	reqidmiddleware "github.com/StudyBeacon/physics-learn/pkg/middleware/requestid"
	"github.com/StudyBeacon/physics-learn/pkg/middleware/secure"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

func newRouter(cfg *config.Config, logr *zap.Logger, a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(secure.Headers())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(response.ExposeErrorDetail(cfg.Env != config.EnvProduction))

	r.Static("/uploads", a.uploadsDir)
	r.GET("/health", a.metricsH.Health)
	r.GET("/ready", a.metricsH.Ready)
	r.GET("/metrics", a.metricsH.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	api := r.Group(cfg.APIPrefix)
	registerPublicRoutes(api, a)
	registerAuthRoutes(api, a)
	registerAdminRoutes(api, logr, a)

	return r
}

func registerPublicRoutes(api *gin.RouterGroup, a *app) {
	papers := api.Group("/past-questions")
	papers.GET("", a.papersH.List)
	papers.GET("/subject/:subjectCode/:yearSlug", a.papersH.BySubjectYear)
	papers.GET("/:id", a.papersH.Get)
	papers.GET("/:id/print", a.papersH.Print)

	notes := api.Group("/chapter-notes")
	notes.GET("", a.notesH.List)
	notes.GET("/:id", a.notesH.Get)

	catalog := api.Group("/catalog")
	catalog.GET("/subjects", a.catalogH.ListSubjects)
	catalog.GET("/subjects/:id", a.catalogH.GetSubject)

	chapters := api.Group("/chapters")
	chapters.GET("", a.catalogH.ListChapters)
	chapters.GET("/:id", a.catalogH.GetChapter)

	years := api.Group("/years")
	years.GET("", a.yearH.List)
	years.GET("/:slug", a.yearH.Get)
	years.GET("/:slug/subjects", a.yearH.Subjects)

	subjectPage := api.Group("/subjects/:yearSlug/:subjectCode")
	subjectPage.GET("/info", a.yearH.SubjectInfo)
	subjectPage.GET("/units", a.unitH.ListForSubject)
	subjectPage.GET("/materials", a.materialH.ListForSubject)
	subjectPage.GET("/chapters", a.catalogH.ListSubjectChapters)

	posts := api.Group("/posts")
	posts.GET("", a.siteH.ListPosts)
	posts.GET("/:id", a.siteH.GetPost)
}

func registerAuthRoutes(api *gin.RouterGroup, a *app) {
	auth := api.Group("/auth")
	throttle := middleware.RateLimit(a.limiter, "auth")
	auth.POST("/register", throttle, a.authH.Register)
	auth.POST("/login", throttle, a.authH.Login)
	auth.POST("/admin/login", throttle, a.authH.AdminLogin)
	auth.GET("/me", middleware.JWT(a.auth), a.authH.Me)
}

func registerAdminRoutes(api *gin.RouterGroup, logr *zap.Logger, a *app) {
	secured := api.Group("")
	secured.Use(middleware.JWT(a.auth), middleware.RequireRoles(models.RoleAdmin), middleware.RequireAjax())

	papers := secured.Group("/past-questions", middleware.Audit(logr, "exam_paper"))
	papers.POST("", a.papersH.Create)
	papers.PUT("/:id", a.papersH.Update)
	papers.DELETE("/:id", a.papersH.Delete)

	notes := secured.Group("/chapter-notes", middleware.Audit(logr, "chapter_note"))
	notes.POST("", a.notesH.Create)
	notes.PUT("/:id", a.notesH.Update)
	notes.DELETE("/:id", a.notesH.Delete)

	subjects := secured.Group("/catalog/subjects", middleware.Audit(logr, "catalog_subject"))
	subjects.POST("", a.catalogH.CreateSubject)
	subjects.PUT("/:id", a.catalogH.UpdateSubject)
	subjects.DELETE("/:id", a.catalogH.DeleteSubject)

	chapters := secured.Group("/chapters", middleware.Audit(logr, "chapter"))
	chapters.POST("", a.catalogH.CreateChapter)
	chapters.PUT("/:id", a.catalogH.UpdateChapter)
	chapters.DELETE("/:id", a.catalogH.DeleteChapter)

	admin := secured.Group("/admin")
	admin.GET("/stats", a.statsH.Summary)
	admin.GET("/chapters", a.catalogH.ListAllChapters)
	admin.GET("/past-questions/export", a.papersH.Export)

	admin.GET("/settings", a.siteH.GetSettings)
	admin.PUT("/settings", middleware.Audit(logr, "settings"), a.siteH.UpdateSettings)

	units := admin.Group("/units", middleware.Audit(logr, "unit"))
	units.GET("", a.unitH.ListAll)
	units.GET("/:id", a.unitH.Get)
	units.POST("", a.unitH.Create)
	units.PUT("/:id", a.unitH.Update)
	units.DELETE("/:id", a.unitH.Delete)

	materials := admin.Group("/materials", middleware.Audit(logr, "material"))
	materials.GET("", a.materialH.ListAll)
	materials.GET("/:id", a.materialH.Get)
	materials.POST("", a.materialH.Create)
	materials.PUT("/:id", a.materialH.Update)
	materials.DELETE("/:id", a.materialH.Delete)

	posts := admin.Group("/posts", middleware.Audit(logr, "post"))
	posts.GET("", a.siteH.ListAllPosts)
	posts.POST("", a.siteH.CreatePost)
	posts.PUT("/:id", a.siteH.UpdatePost)
	posts.DELETE("/:id", a.siteH.DeletePost)

	users := admin.Group("/users", middleware.Audit(logr, "user"))
	users.GET("", a.userH.List)
	users.POST("", a.userH.Create)
	users.PUT("/:id", a.userH.Update)
	users.DELETE("/:id", a.userH.Delete)
}
