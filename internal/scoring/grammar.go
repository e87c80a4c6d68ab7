package scoring

import "strings"

// GrammarRetention scores grammatical quality as the proportion of original
// words that survive automatic correction. A heavily rewritten answer retains
// few words and scores low; an untouched answer scores 1.
func GrammarRetention(original, corrected string) float64 {
	originalWords := normalizedWords(original)
	if len(originalWords) == 0 {
		return 1
	}

	correctedSet := make(map[string]struct{})
	for _, word := range normalizedWords(corrected) {
		correctedSet[word] = struct{}{}
	}

	common := 0
	seen := make(map[string]struct{})
	for _, word := range originalWords {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		if _, ok := correctedSet[word]; ok {
			common++
		}
	}

	return float64(common) / float64(len(seen))
}

func normalizedWords(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
