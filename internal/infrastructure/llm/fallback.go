package llm

import (
	"strings"

	"RiskMonitor/internal/domain"
)

func fallbackSummary(title, description string) string {
	var b strings.Builder
	b.WriteString("• " + truncate(title, 100) + "...")
	if description != "" {
		b.WriteString("\n• " + truncate(description, 150) + "...")
	}
	b.WriteString("\n• 상세 분석을 위해 원문을 확인하세요.")
	return b.String()
}

var fallbackAnalysis = map[domain.RiskLevel]string{
	domain.RiskRed:   "고위험 키워드가 다수 감지되었습니다. 즉시 확인이 필요합니다.",
	domain.RiskAmber: "주의가 필요한 내용이 포함되어 있습니다. 모니터링을 권장합니다.",
	domain.RiskGreen: "특별한 리스크가 감지되지 않았습니다.",
}

var fallbackActions = map[domain.RiskLevel][]string{
	domain.RiskRed: {
		"경영진에게 즉시 보고",
		"법무팀 검토 요청",
		"PR팀 대응 방안 수립",
		"관련 부서 긴급 회의 소집",
		"공식 입장문 초안 작성",
	},
	domain.RiskAmber: {
		"기사 상세 내용 파악",
		"관련 담당자에게 공유",
		"추가 기사 모니터링",
		"필요시 대응 방안 검토",
	},
	domain.RiskGreen: {
		"기사 내용 확인 완료",
		"필요시 내부 공유",
	},
}

func fallbackActionItems(level domain.RiskLevel) []domain.ActionItem {
	texts, ok := fallbackActions[level]
	if !ok {
		texts = fallbackActions[domain.RiskGreen]
	}
	items := make([]domain.ActionItem, 0, len(texts))
	for _, text := range texts {
		items = append(items, domain.ActionItem{Text: text})
	}
	return items
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
