package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/infrastructure/storage"
	"RiskMonitor/internal/ports"
	"RiskMonitor/internal/review"
)

// ArticleStore is the read side of the review dashboard.
type ArticleStore interface {
	List(ctx context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error)
	Get(ctx context.Context, id int64) (domain.Article, error)
	Categories(ctx context.Context) ([]string, error)
	DashboardStats(ctx context.Context, now time.Time) (domain.DashboardStats, error)
	SaveEnrichment(ctx context.Context, id int64, enrichment domain.Enrichment) error
}

// Workflow applies reviewer actions.
type Workflow interface {
	Transition(ctx context.Context, id int64, status string, actorID *int64) (domain.StatusChange, error)
	Assign(ctx context.Context, id int64, assigneeID *int64) error
}

// Classifier runs the deterministic engine.
type Classifier interface {
	Classify(title, description string) domain.Classification
}

// Handler serves the review API.
type Handler struct {
	store      ArticleStore
	workflow   Workflow
	enricher   ports.Enricher
	classifier Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler wires the API. A nil enricher disables on-demand analysis.
func NewHandler(store ArticleStore, workflow Workflow, enricher ports.Enricher, classifier Classifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		store:      store,
		workflow:   workflow,
		enricher:   enricher,
		classifier: classifier,
		logger:     logger.With("component", "httpapi"),
		now:        time.Now,
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("error listing articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	articles := make([]ArticleResponse, 0, len(page.Articles))
	for _, a := range page.Articles {
		articles = append(articles, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, ListResponse{
		Articles:   articles,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("error fetching categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context(), h.now())
	if err != nil {
		h.logger.Error("error fetching dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	_, err := h.workflow.Transition(c.Request.Context(), id, req.Status, req.ActorID)
	switch {
	case errors.Is(err, review.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Allowed: pending, reviewing, resolved, ignored"})
		return
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	case err != nil:
		h.logger.Error("error updating status", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.respondUpdated(c, id, "Status updated")
}

func (h *Handler) UpdateAssignee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.workflow.Assign(c.Request.Context(), id, req.AssigneeID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	case err != nil:
		h.logger.Error("error updating assignee", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignee"})
		return
	}

	h.respondUpdated(c, id, "Assignee updated")
}

func (h *Handler) AnalyzeArticle(c *gin.Context) {
	if h.enricher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI analysis is not configured"})
		return
	}

	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	enrichment, err := h.enricher.Enrich(c.Request.Context(), article)
	if err == nil {
		err = h.store.SaveEnrichment(c.Request.Context(), article.ID, enrichment)
	}
	if err != nil {
		h.logger.Error("error during ai analysis", "error", err, "article_id", article.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed"})
		return
	}

	article.ApplyEnrichment(enrichment)
	c.JSON(http.StatusOK, ArticleUpdateResponse{Message: "AI analysis completed", Article: toArticleResponse(article)})
}

func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	c.JSON(http.StatusOK, h.classifier.Classify(req.Title, req.Description))
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondUpdated(c *gin.Context, id int64, message string) {
	article, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("error reloading article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch article"})
		return
	}
	c.JSON(http.StatusOK, ArticleUpdateResponse{Message: message, Article: toArticleResponse(article)})
}

func (h *Handler) loadArticle(c *gin.Context) (domain.Article, bool) {
	id, ok := parseID(c)
	if !ok {
		return domain.Article{}, false
	}

	article, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return domain.Article{}, false
	}
	if err != nil {
		h.logger.Error("error fetching article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch article"})
		return domain.Article{}, false
	}
	return article, true
}

func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return 0, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (domain.ArticleFilter, error) {
	f := domain.ArticleFilter{
		Category:        c.Query("category"),
		Source:          c.Query("source"),
		Keyword:         c.Query("keyword"),
		Sentiment:       domain.Sentiment(c.Query("sentiment")),
		RiskLevel:       domain.RiskLevel(c.Query("risk_level")),
		Status:          domain.Status(c.Query("status")),
		NeedsResponse:   flag(c.Query("needs_response")),
		ExcludeResolved: flag(c.Query("exclude_resolved")),
		Page:            atoiOr(c.Query("page"), 1),
		PerPage:         atoiOr(c.Query("per_page"), domain.DefaultPerPage),
	}

	var err error
	if f.From, err = parseDate(c.Query("date_from")); err != nil {
		return f, errors.New("invalid date format (date_from)")
	}
	if f.To, err = parseDate(c.Query("date_to")); err != nil {
		return f, errors.New("invalid date format (date_to)")
	}
	if raw := c.Query("assignee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, errors.New("invalid assignee_id")
		}
		f.AssigneeID = &id
	}
	return f, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func flag(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
