package notify

import (
	"strconv"
	"strings"

	"RiskMonitor/internal/domain"
)

// Message fragments shared by every channel.
const (
	CriticalHeader = "🚨 심각 리스크 기사 발견"
	SummaryHeader  = "📊 일일 리스크 모니터링 요약"
	OpenArticle    = "원문 보기"
)

const (
	uncategorized  = "미분류"
	missingExcerpt = "N/A"
	excerptRunes   = 200
)

// CriticalAlert is the channel-neutral content of a critical-article alert.
type CriticalAlert struct {
	Level    string
	Category string
	Title    string
	Excerpt  string
	URL      string
}

// NewCriticalAlert extracts alert fields from a stored article.
func NewCriticalAlert(a domain.Article) CriticalAlert {
	category := a.Category
	if category == "" {
		category = uncategorized
	}

	excerpt := missingExcerpt
	if a.Description != "" {
		excerpt = truncateRunes(a.Description, excerptRunes)
	}

	return CriticalAlert{
		Level:    strings.ToUpper(string(a.RiskLevel)),
		Category: category,
		Title:    a.Title,
		Excerpt:  excerpt + "...",
		URL:      a.URL,
	}
}

// SummaryLines renders the per-tier counts shared by every channel.
func SummaryLines(c domain.RiskCounts) []string {
	return []string{
		"• 🔴 심각 (Red): " + strconv.Itoa(c.Red) + "건",
		"• 🟡 주의 (Amber): " + strconv.Itoa(c.Amber) + "건",
		"• 🟢 정상 (Green): " + strconv.Itoa(c.Green) + "건",
		"",
		"총 " + strconv.Itoa(c.Total()) + "건의 기사가 모니터링되었습니다.",
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
