package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts the review API. Cross-origin requests are accepted from
// allowedOrigins only.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", h.GetHealth)

	api := r.Group("/api")
	api.POST("/classify", h.Classify)

	articles := api.Group("/articles")
	articles.GET("", h.ListArticles)
	articles.GET("/categories", h.GetCategories)
	articles.GET("/dashboard-stats", h.GetDashboardStats)
	articles.GET("/:id", h.GetArticle)
	articles.PATCH("/:id/status", h.UpdateStatus)
	articles.PATCH("/:id/assignee", h.UpdateAssignee)
	articles.POST("/:id/analyze", h.AnalyzeArticle)

	return r
}
