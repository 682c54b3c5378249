package classifier

import "strings"

const (
	identityTitleWeight = 3.0
	identityBodyWeight  = 1.5
	generalTitleWeight  = 2.0
	generalBodyWeight   = 1.0

	identityFloor      = 0.7
	keywordFloorBase   = 0.5
	keywordFloorStep   = 0.1
	relevanceThreshold = 0.04
)

// Relevance is the outcome of the relevance pass.
type Relevance struct {
	IsRelevant      bool
	Confidence      float64
	MatchedKeywords []string
}

// Relevance decides whether the article is about the organization at all.
func (t Tables) Relevance(title, description string) Relevance {
	scan := scanText(title, description)
	if t.homonym(scan) {
		return Relevance{MatchedKeywords: []string{}}
	}

	lowerTitle := strings.ToLower(title)
	matched := make([]string, 0)
	seen := make(map[string]struct{})
	raw := 0.0

	match := func(term string, titleWeight, bodyWeight float64) bool {
		lt := strings.ToLower(term)
		if lt == "" || !strings.Contains(scan, lt) {
			return false
		}
		if _, dup := seen[lt]; dup {
			return false
		}
		seen[lt] = struct{}{}
		matched = append(matched, term)
		if strings.Contains(lowerTitle, lt) {
			raw += titleWeight
		} else {
			raw += bodyWeight
		}
		return true
	}

	identityHit := false
	for _, term := range t.IdentityTerms {
		if match(term, identityTitleWeight, identityBodyWeight) {
			identityHit = true
		}
	}
	for _, term := range t.SearchKeywords {
		match(term, generalTitleWeight, generalBodyWeight)
	}

	maxScore := identityTitleWeight*float64(len(t.IdentityTerms)) + generalTitleWeight*float64(len(t.SearchKeywords))
	confidence := 0.0
	if maxScore > 0 {
		confidence = min(raw/maxScore, 1.0)
	}

	switch {
	case identityHit:
		confidence = max(confidence, identityFloor)
	case len(matched) > 0:
		confidence = max(confidence, min(keywordFloorBase+keywordFloorStep*float64(len(matched)), 1.0))
	}

	return Relevance{
		IsRelevant:      confidence >= relevanceThreshold && len(matched) >= 1,
		Confidence:      confidence,
		MatchedKeywords: matched,
	}
}

// homonym reports whether scan uses the organization's name as a technical word
// with nothing tying it back to the organization.
func (t Tables) homonym(scan string) bool {
	if !containsAny(scan, t.ExclusionPhrases) {
		return false
	}
	return !containsAny(scan, t.NativeNames) &&
		!containsAny(scan, t.IdentityTerms) &&
		!containsAny(scan, t.ContextTerms)
}
