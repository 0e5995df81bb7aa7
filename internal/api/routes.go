package api

import (
	"embed"
	"html/template"

	"review-eval/internal/catalog"
	"review-eval/internal/config"
	"review-eval/internal/evaluation"
	"review-eval/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() (*template.Template, error) {
	return template.New("pages").
		Funcs(template.FuncMap{"markdown": renderMarkdown}).
		ParseFS(templateFS, "templates/*.tmpl")
}

func SetupRoutes(router *gin.Engine, cfg *config.Config, cat *catalog.Catalog, svc *evaluation.Service, logger *zap.Logger) error {
	server := NewServer(cat, svc, cfg, logger)

	tmpl, err := loadTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "review-eval",
			"raters":  len(cat.Raters()),
		})
	})

	// Pages
	router.GET("/", server.Index)
	router.POST("/session", server.CreateSession)
	router.POST("/logout", server.Logout)

	pages := router.Group("/papers")
	pages.Use(middleware.RequireSession(server.jwtManager, "/"))
	{
		pages.GET("", server.PapersPage)
		pages.GET("/:id", server.PaperPage)
		pages.GET("/:id/pdf", server.ServePDF)
		pages.POST("/:id/submit", server.SubmitPaperForm)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/raters", server.GetRaters)
		v1.GET("/raters/:id/papers", server.GetRaterPapers)

		protected := v1.Group("/papers")
		protected.Use(middleware.RequireSession(server.jwtManager, ""))
		{
			protected.GET("/:id", server.GetPaperForm)
			protected.POST("/:id/evaluations", server.SubmitEvaluation)
		}
	}

	// Admin only routes
	if cfg.AdminEnabled() {
		admin := router.Group("/admin")
		admin.Use(middleware.AdminBasicAuth(cfg.Admin.User, cfg.Admin.PasswordHash))
		{
			admin.GET("/results", server.ExportResults)
		}
	} else {
		logger.Info("admin export disabled: ADMIN_PASSWORD_HASH not set")
	}

	return nil
}
