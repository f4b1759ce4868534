package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/handler"
	"github.com/noah-isme/kickoff-coach-api/internal/middleware"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
	"github.com/noah-isme/kickoff-coach-api/pkg/config"
	"github.com/noah-isme/kickoff-coach-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kickoff-coach-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kickoff-coach-api/pkg/middleware/requestid"
)

type handlers struct {
	auth      *handler.AuthHandler
	coaches   *handler.CoachHandler
	lessons   *handler.LessonHandler
	bookings  *handler.BookingHandler
	reviews   *handler.ReviewHandler
	inquiries *handler.InquiryHandler
	company   *handler.CompanyInfoHandler
	dashboard *handler.DashboardHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens middleware.TokenValidator, profiles middleware.CoachProfiles, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWT(tokens)
	coachRequired := middleware.RequireCoach(profiles)
	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", h.auth.Register)
	auth.POST("/login", h.auth.Login)
	auth.POST("/social/:provider", h.auth.SocialLogin)
	auth.GET("/me", authRequired, h.auth.Me)
	api.PUT("/users/me", authRequired, h.auth.UpdateProfile)

	coaches := api.Group("/coaches")
	coaches.GET("", h.coaches.Search)
	coaches.GET("/top", h.coaches.Top)
	coaches.GET("/:id", h.coaches.Get)
	coaches.GET("/:id/lessons", h.coaches.Lessons)
	coaches.GET("/:id/reviews", h.coaches.Reviews)
	coaches.GET("/:id/schedules", h.coaches.Schedules)
	coaches.POST("", authRequired, h.coaches.Create)
	coaches.PUT("/:id", authRequired, coachRequired, h.coaches.Update)
	coaches.POST("/:id/schedules", authRequired, coachRequired, h.coaches.AddSchedule)

	lessons := api.Group("/lessons")
	lessons.GET("", h.lessons.Search)
	lessons.GET("/recommended", h.lessons.Recommended)
	lessons.GET("/:id", h.lessons.Get)
	lessons.GET("/:id/reviews", h.lessons.Reviews)
	lessons.POST("", authRequired, coachRequired, h.lessons.Create)
	api.GET("/lesson-types", h.lessons.LessonTypes)
	api.GET("/skill-levels", h.lessons.SkillLevels)

	bookings := api.Group("/bookings", authRequired)
	bookings.POST("", h.bookings.Create)
	bookings.GET("/me", h.bookings.Mine)
	bookings.PATCH("/:id/status", h.bookings.UpdateStatus)

	api.POST("/reviews", authRequired, h.reviews.Create)
	api.POST("/inquiries", middleware.OptionalJWT(tokens), h.inquiries.Create)
	api.GET("/company-info", h.company.Public)

	admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
	admin.GET("/stats", h.dashboard.Stats)
	admin.GET("/company-info", h.company.List)
	admin.PUT("/company-info/bulk", middleware.Audit(logr, "company_info.bulk_update"), h.company.BulkUpdate)
	admin.PUT("/company-info/:key", middleware.Audit(logr, "company_info.update"), h.company.Update)
	admin.GET("/inquiries", h.inquiries.List)
	admin.PATCH("/inquiries/:id/resolve", middleware.Audit(logr, "inquiry.resolve"), h.inquiries.Resolve)
	admin.GET("/bookings/export", middleware.Audit(logr, "bookings.export"), h.bookings.Export)

	return r
}
