package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/ports"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no article matches the requested id.
var ErrNotFound = errors.New("article not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "description", "url", "source", "published_date",
	"is_relevant", "category", "keywords", "confidence_score",
	"sentiment", "needs_response", "risk_level", "risk_score",
	"status", "assignee_id", "ai_summary", "ai_risk_analysis",
	"action_items", "similar_cases", "resolved_at", "resolved_by_id",
	"created_at", "updated_at",
}

// red first, then amber, then green
const riskPriority = "CASE risk_level WHEN 'red' THEN 0 WHEN 'amber' THEN 1 ELSE 2 END"

// PostgresRepository persists classified articles into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the articles table and its indexes when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ExistingURLs returns the subset of urls already stored.
func (r *PostgresRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query := `SELECT url FROM articles WHERE url = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.StringArray(urls))
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// Save inserts a classified article. It reports false without error when the
// URL is already stored.
func (r *PostgresRepository) Save(ctx context.Context, article domain.ClassifiedArticle) (int64, bool, error) {
	if r.db == nil {
		return 0, false, nil
	}

	keywords := article.MatchedKeywords
	if keywords == nil {
		keywords = []string{}
	}

	query, args, err := psql.Insert("articles").
		Columns(
			"title", "description", "url", "source", "published_date",
			"is_relevant", "category", "keywords", "confidence_score",
			"sentiment", "needs_response", "risk_level", "risk_score", "status",
		).
		Values(
			article.Title,
			nullString(article.Description),
			article.URL,
			nullString(article.Source),
			nullTime(article.PublishedAt),
			article.IsRelevant,
			nullString(article.Category),
			pq.StringArray(keywords),
			article.Confidence,
			string(article.Sentiment),
			article.NeedsResponse,
			string(article.RiskLevel),
			article.RiskScore,
			string(domain.StatusPending),
		).
		Suffix("ON CONFLICT (url) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert article: %w", err)
	}

	return id, true, nil
}

// Get loads one article by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (domain.Article, error) {
	if r.db == nil {
		return domain.Article{}, ErrNotFound
	}

	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build select: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %d: %w", id, err)
	}
	return article, nil
}

// List returns one page of relevant articles, most severe and newest first.
func (r *PostgresRepository) List(ctx context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error) {
	filter = filter.Normalize()
	page := domain.ArticlePage{Page: filter.Page, PerPage: filter.PerPage, Articles: []domain.Article{}}
	if r.db == nil {
		return page, nil
	}

	base := applyFilter(psql.Select().From("articles").Where(sq.Eq{"is_relevant": true}), filter)

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return page, fmt.Errorf("build count: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count articles: %w", err)
	}
	page.TotalPages = (page.Total + filter.PerPage - 1) / filter.PerPage

	query, args, err := base.Columns(articleColumns...).
		OrderBy(riskPriority, "published_date DESC NULLS LAST", "id DESC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return page, fmt.Errorf("scan article: %w", err)
		}
		page.Articles = append(page.Articles, article)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("rows iteration: %w", err)
	}

	return page, nil
}

func applyFilter(b sq.SelectBuilder, f domain.ArticleFilter) sq.SelectBuilder {
	if f.Category != "" {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	if f.Source != "" {
		b = b.Where(sq.ILike{"source": "%" + f.Source + "%"})
	}
	if !f.From.IsZero() {
		b = b.Where(sq.GtOrEq{"published_date": f.From})
	}
	if !f.To.IsZero() {
		// inclusive of the whole end day
		b = b.Where(sq.Lt{"published_date": f.To.AddDate(0, 0, 1)})
	}
	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		b = b.Where(sq.Or{sq.ILike{"title": pattern}, sq.ILike{"description": pattern}})
	}
	if f.Sentiment != "" {
		b = b.Where(sq.Eq{"sentiment": string(f.Sentiment)})
	}
	if f.NeedsResponse {
		b = b.Where(sq.Eq{"needs_response": true})
	}
	if f.RiskLevel != "" {
		b = b.Where(sq.Eq{"risk_level": string(f.RiskLevel)})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.AssigneeID != nil {
		b = b.Where(sq.Eq{"assignee_id": *f.AssigneeID})
	}
	if f.ExcludeResolved {
		b = b.Where(sq.NotEq{"status": string(domain.StatusResolved)})
	}
	return b
}

// Categories lists the distinct categories of relevant articles.
func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return []string{}, nil
	}

	query, args, err := psql.Select("DISTINCT category").
		From("articles").
		Where(sq.Eq{"is_relevant": true}).
		Where(sq.NotEq{"category": nil}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return categories, nil
}

// DashboardStats counts open risk per tier, workflow status, and red articles
// collected in the seven days before now.
func (r *PostgresRepository) DashboardStats(ctx context.Context, now time.Time) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if r.db == nil {
		return stats, nil
	}

	resolved := string(domain.StatusResolved)
	query, args, err := psql.Select().
		Column(sq.Expr("COUNT(*) FILTER (WHERE risk_level = ? AND status <> ?)", string(domain.RiskRed), resolved)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE risk_level = ? AND status <> ?)", string(domain.RiskAmber), resolved)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE risk_level = ?)", string(domain.RiskGreen))).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", string(domain.StatusPending))).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", string(domain.StatusReviewing))).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", resolved)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE risk_level = ? AND created_at >= ?)", string(domain.RiskRed), now.AddDate(0, 0, -7))).
		From("articles").
		Where(sq.Eq{"is_relevant": true}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.RiskLevels.Red,
		&stats.RiskLevels.Amber,
		&stats.RiskLevels.Green,
		&stats.Status.Pending,
		&stats.Status.Reviewing,
		&stats.Status.Resolved,
		&stats.RecentCritical7d,
	)
	if err != nil {
		return stats, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

// UpdateStatus persists a workflow transition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, change domain.StatusChange) error {
	return r.update(ctx, id, psql.Update("articles").
		Set("status", string(change.Status)).
		Set("resolved_at", change.ResolvedAt).
		Set("resolved_by_id", change.ResolvedByID))
}

// Assign sets or clears (nil) the reviewer of an article.
func (r *PostgresRepository) Assign(ctx context.Context, id int64, assigneeID *int64) error {
	return r.update(ctx, id, psql.Update("articles").Set("assignee_id", assigneeID))
}

// SaveEnrichment stores AI output and the risk fields it overrides.
func (r *PostgresRepository) SaveEnrichment(ctx context.Context, id int64, enrichment domain.Enrichment) error {
	actionItems, err := marshalJSON(enrichment.ActionItems)
	if err != nil {
		return fmt.Errorf("encode action items: %w", err)
	}
	similarCases, err := marshalJSON(enrichment.SimilarCases)
	if err != nil {
		return fmt.Errorf("encode similar cases: %w", err)
	}

	return r.update(ctx, id, psql.Update("articles").
		Set("ai_summary", nullString(enrichment.Summary)).
		Set("ai_risk_analysis", nullString(enrichment.RiskAnalysis)).
		Set("risk_level", string(enrichment.RiskLevel)).
		Set("risk_score", enrichment.RiskScore).
		Set("action_items", actionItems).
		Set("similar_cases", similarCases))
}

func (r *PostgresRepository) update(ctx context.Context, id int64, b sq.UpdateBuilder) error {
	if r.db == nil {
		return ErrNotFound
	}

	query, args, err := b.Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		a                                                domain.Article
		description, source, category, summary, analysis sql.NullString
		sentiment, riskLevel, status                     string
		published, resolvedAt                            sql.NullTime
		assignee, resolvedBy                             sql.NullInt64
		keywords                                         pq.StringArray
		actionItems, similarCases                        []byte
	)

	err := row.Scan(
		&a.ID, &a.Title, &description, &a.URL, &source, &published,
		&a.IsRelevant, &category, &keywords, &a.Confidence,
		&sentiment, &a.NeedsResponse, &riskLevel, &a.RiskScore,
		&status, &assignee, &summary, &analysis,
		&actionItems, &similarCases, &resolvedAt, &resolvedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	a.Description = description.String
	a.Source = source.String
	a.Category = category.String
	a.AISummary = summary.String
	a.RiskAnalysis = analysis.String
	a.MatchedKeywords = []string(keywords)
	a.Sentiment = domain.Sentiment(sentiment)
	a.RiskLevel = domain.RiskLevel(riskLevel)
	a.Status = domain.Status(status)
	if published.Valid {
		a.PublishedAt = published.Time
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	if assignee.Valid {
		id := assignee.Int64
		a.AssigneeID = &id
	}
	if resolvedBy.Valid {
		id := resolvedBy.Int64
		a.ResolvedByID = &id
	}
	if len(actionItems) > 0 {
		if err := json.Unmarshal(actionItems, &a.ActionItems); err != nil {
			return domain.Article{}, fmt.Errorf("decode action items: %w", err)
		}
	}
	if len(similarCases) > 0 {
		if err := json.Unmarshal(similarCases, &a.SimilarCases); err != nil {
			return domain.Article{}, fmt.Errorf("decode similar cases: %w", err)
		}
	}
	return a, nil
}

// marshalJSON returns NULL for empty values and JSON text otherwise. lib/pq
// would send []byte as bytea.
func marshalJSON[T any](v []T) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
