package domain

// DefaultSimilarityThreshold is the score at or above which two quote texts
// are treated as near-duplicates.
const DefaultSimilarityThreshold = 0.85

// Similarity returns a normalized edit-distance score in [0,1] between a and
// b: (L - levenshtein(a,b)) / L where L is the longer length in runes. Two
// empty strings score 1.0. The function is symmetric and case-sensitive;
// callers that want case-insensitive comparison lowercase first.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}

	if longer == 0 {
		return 1.0
	}

	return float64(longer-levenshtein(ra, rb)) / float64(longer)
}

// levenshtein computes the rune-level edit distance between a and b with unit
// cost for insert, delete and substitute. Two rows of the distance matrix are
// kept instead of the full table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i

		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}

			curr[j] = 1 + min3(prev[j-1], curr[j-1], prev[j])
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}
