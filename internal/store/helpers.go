package store

// maxListLimit caps limit values for list queries.
const maxListLimit = 1000

// clampLimit bounds a caller-supplied page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}

	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}
