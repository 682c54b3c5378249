package classifier

// Category picks the category whose keywords occur most often in scan. Ties go to
// the earlier declared category; no hits at all yields the catch-all.
func (t Tables) Category(scan string) string {
	best, bestHits := "", 0
	for _, c := range t.Categories {
		if hits := countHits(scan, c.Keywords); hits > bestHits {
			best, bestHits = c.Name, hits
		}
	}
	if bestHits == 0 {
		return t.catchAll()
	}
	return best
}
