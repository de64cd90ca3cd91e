package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/handler"
	"github.com/noah-isme/admissions-portal-api/internal/middleware"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/config"
)

type routeDeps struct {
	cfg    *config.Config
	logger *zap.Logger
	tokens middleware.TokenValidator
	audit  middleware.AuditWriter

	auth          *handler.AuthHandler
	applications  *handler.ApplicationHandler
	documents     *handler.DocumentHandler
	gallery       *handler.GalleryHandler
	leaders       *handler.LeaderHandler
	events        *handler.EventHandler
	notifications *handler.NotificationHandler
	contacts      *handler.ContactHandler
	platform      *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.platform.Health)
	r.GET("/ready", d.platform.Ready)
	r.GET("/metrics", d.platform.Prometheus)
	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(d.cfg.APIPrefix)
	requireAuth := middleware.JWT(d.tokens)
	adminOnly := []gin.HandlerFunc{requireAuth, middleware.AdminOnly()}
	audited := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(d.audit, d.logger, action, resource)
	}
	admin := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, adminOnly...), extra...)
	}
	chain := func(handlers []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
		return append(handlers, h)
	}

	admins := api.Group("/admin")
	{
		admins.POST("/seed", d.auth.Seed)
		admins.GET("/check/exists", d.auth.Exists)
		admins.POST("/login", d.auth.Login)
		admins.POST("/forget-password", d.auth.ForgotPassword)
		admins.POST("/reset-password", d.auth.ResetPassword)
		self := middleware.RBAC(string(models.RoleSuperAdmin), middleware.SelfRole)
		admins.PUT("/update/:id", requireAuth, self, d.auth.Update)
		admins.GET("/:id", requireAuth, self, d.auth.Get)
	}

	applications := api.Group("/applications")
	{
		applications.POST("", d.applications.Create)
		applications.PUT("/:id", middleware.OptionalJWT(d.tokens), d.applications.Update)
		applications.PUT("/:id/submit", middleware.OptionalJWT(d.tokens), d.applications.Submit)

		applications.GET("", chain(admin(), d.applications.List)...)
		applications.GET("/statistics", chain(admin(), d.applications.Statistics)...)
		applications.GET("/export/csv", chain(admin(), d.applications.ExportCSV)...)
		applications.GET("/number/:number", chain(admin(), d.applications.GetByNumber)...)
		applications.GET("/user/:email", chain(admin(), d.applications.GetByEmail)...)
		applications.GET("/status/:status", chain(admin(), d.applications.GetByStatus)...)
		applications.GET("/program/:program", chain(admin(), d.applications.GetByProgram)...)
		applications.GET("/:id", chain(admin(), d.applications.Get)...)
		applications.GET("/:id/summary.pdf", chain(admin(), d.applications.SummaryPDF)...)
		applications.GET("/:id/documents/:slot/url", chain(admin(), d.applications.DocumentURL)...)
		applications.PUT("/:id/status", chain(admin(), d.applications.TransitionStatus)...)
		applications.DELETE("/:id", chain(admin(), d.applications.Delete)...)
	}
	api.GET("/files/download", d.applications.Download)

	documents := api.Group("/document")
	{
		documents.GET("/all", d.documents.List)
		documents.GET("/search", d.documents.Search)
		documents.GET("/recent", d.documents.Recent)
		documents.GET("/stats", d.documents.Stats)
		documents.GET("/categories/count", d.documents.Categories)
		documents.GET("/category/:category", d.documents.ByCategory)
		documents.GET("/:id", d.documents.Get)
		documents.GET("/:id/download", d.documents.Download)
		documents.POST("/add", chain(admin(audited(models.AuditActionContentCreate, "document")), d.documents.Add)...)
		documents.PUT("/:id", chain(admin(audited(models.AuditActionContentUpdate, "document")), d.documents.Update)...)
		documents.DELETE("/:id", chain(admin(audited(models.AuditActionContentDelete, "document")), d.documents.Delete)...)
	}

	gallery := api.Group("/gallery")
	{
		gallery.GET("", d.gallery.List)
		gallery.GET("/categories", d.gallery.Categories)
		gallery.GET("/stats/overview", d.gallery.Stats)
		gallery.GET("/:id", d.gallery.Get)
		gallery.POST("", chain(admin(audited(models.AuditActionContentCreate, "gallery")), d.gallery.Add)...)
		gallery.POST("/bulk", chain(admin(audited(models.AuditActionContentCreate, "gallery")), d.gallery.BulkAdd)...)
		gallery.PUT("/:id", chain(admin(audited(models.AuditActionContentUpdate, "gallery")), d.gallery.Update)...)
		gallery.DELETE("/:id", chain(admin(audited(models.AuditActionContentDelete, "gallery")), d.gallery.Delete)...)
	}

	leaders := api.Group("/leader")
	{
		leaders.GET("/all", d.leaders.List)
		leaders.GET("/:position", d.leaders.Get)
		leaders.POST("/add", chain(admin(audited(models.AuditActionContentCreate, "leader")), d.leaders.Add)...)
		leaders.PUT("/:position", chain(admin(audited(models.AuditActionContentUpdate, "leader")), d.leaders.Update)...)
		leaders.DELETE("/:position", chain(admin(audited(models.AuditActionContentDelete, "leader")), d.leaders.Delete)...)
	}

	events := api.Group("/api/events")
	{
		events.GET("", d.events.List)
		events.GET("/:id", d.events.Get)
		events.POST("", chain(admin(audited(models.AuditActionContentCreate, "event")), d.events.Create)...)
		events.PUT("/:id", chain(admin(audited(models.AuditActionContentUpdate, "event")), d.events.Update)...)
		events.DELETE("/:id", chain(admin(audited(models.AuditActionContentDelete, "event")), d.events.Delete)...)
	}

	notifications := api.Group("/notification")
	{
		notifications.GET("", d.notifications.List)
		notifications.GET("/:id", d.notifications.Get)
		notifications.POST("", chain(admin(audited(models.AuditActionContentCreate, "notification")), d.notifications.Create)...)
		notifications.PUT("/:id", chain(admin(audited(models.AuditActionContentUpdate, "notification")), d.notifications.Update)...)
		notifications.DELETE("/:id", chain(admin(audited(models.AuditActionContentDelete, "notification")), d.notifications.Delete)...)
		notifications.DELETE("", chain(admin(), d.notifications.ClearAll)...)
	}

	contacts := api.Group("/contact")
	{
		contacts.POST("", d.contacts.Submit)
		contacts.GET("", chain(admin(), d.contacts.List)...)
		contacts.GET("/export/csv", chain(admin(), d.contacts.ExportCSV)...)
		contacts.POST("/bulk-delete", chain(admin(), d.contacts.BulkDelete)...)
		contacts.GET("/:id", chain(admin(), d.contacts.Get)...)
		contacts.PUT("/:id", chain(admin(audited(models.AuditActionContentUpdate, "contact")), d.contacts.Triage)...)
		contacts.DELETE("/:id", chain(admin(audited(models.AuditActionContentDelete, "contact")), d.contacts.Delete)...)
	}
}
