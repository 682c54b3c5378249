package llm

import (
	"fmt"
	"strings"

	"RiskMonitor/internal/domain"
)

const organizationBrief = "'해시드(Hashed)'는 한국의 블록체인/암호화폐 벤처캐피털입니다."

func summaryPrompt(a domain.Article) string {
	return fmt.Sprintf(`다음 뉴스 기사를 핵심 내용 3줄로 요약해주세요.
한국어로 작성하고, 각 줄은 명확하고 간결하게 작성해주세요.

제목: %s
내용: %s

요약 (3줄):`, a.Title, a.Description)
}

func riskPrompt(a domain.Article) string {
	category := a.Category
	if category == "" {
		category = "미분류"
	}

	return fmt.Sprintf(`다음 뉴스 기사의 리스크를 분석해주세요.
%s

기사 제목: %s
기사 내용: %s
카테고리: %s

다음 형식으로 JSON 응답해주세요:
{
    "level": "red/amber/green 중 하나",
    "score": 0-100 사이 숫자,
    "analysis": "리스크 분석 내용 (한국어, 2-3문장)"
}

리스크 기준:
- RED (%d-100점): 해시드에 직접적인 부정적 영향, 법적 문제, 심각한 평판 리스크
- AMBER (%d-%d점): 간접적 영향 가능, 모니터링 필요, 업계 전반의 부정적 뉴스
- GREEN (0-%d점): 긍정적이거나 중립적 뉴스, 리스크 없음

JSON만 응답해주세요:`,
		organizationBrief, a.Title, a.Description, category,
		domain.RedThreshold, domain.AmberThreshold, domain.RedThreshold-1, domain.AmberThreshold-1)
}

func actionItemsPrompt(a domain.Article, level domain.RiskLevel) string {
	return fmt.Sprintf(`다음 뉴스 기사에 대한 대응 액션 아이템을 생성해주세요.
'해시드(Hashed)'의 PR/위기관리 팀 관점에서 작성해주세요.

기사 제목: %s
기사 내용: %s
리스크 레벨: %s

다음 형식으로 JSON 배열로 응답해주세요 (3-5개 항목):
[
    {"text": "액션 아이템 1", "checked": false},
    {"text": "액션 아이템 2", "checked": false}
]

JSON만 응답해주세요:`, a.Title, a.Description, strings.ToUpper(string(level)))
}

// stripFence extracts the body of a ```json or ``` block when present.
func stripFence(s string) string {
	for _, fence := range []string{"```json", "```"} {
		_, rest, ok := strings.Cut(s, fence)
		if !ok {
			continue
		}
		body, _, _ := strings.Cut(rest, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(s)
}
