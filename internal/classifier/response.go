package classifier

// NeedsResponse reports whether the article carries language that may require a
// public statement from the organization.
func (t Tables) NeedsResponse(title, description string) bool {
	return containsAny(scanText(title, description), t.ResponseTerms)
}
