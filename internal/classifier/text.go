package classifier

import "strings"

// scanText is the lowercase "title description" string every table is matched against.
func scanText(title, description string) string {
	return strings.ToLower(title + " " + description)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func countHits(text string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			hits++
		}
	}
	return hits
}

// weigh adds titleWeight for each term found in the title, otherwise bodyWeight
// if the term appears anywhere in scan.
func weigh(title, scan string, terms []string, titleWeight, bodyWeight int) int {
	score := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		lt := strings.ToLower(term)
		switch {
		case strings.Contains(title, lt):
			score += titleWeight
		case strings.Contains(scan, lt):
			score += bodyWeight
		}
	}
	return score
}
