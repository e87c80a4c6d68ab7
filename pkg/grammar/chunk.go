package grammar

import "strings"

var sentenceEnders = map[byte]struct{}{'.': {}, '!': {}, '?': {}}

// SplitChunks breaks text into chunks bounded by sentence boundaries first,
// then by maxWords for any sentence still too long. Empty input yields no
// chunks.
func SplitChunks(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = 60
	}

	var chunks []string
	for _, sentence := range splitSentences(text) {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}
		for start := 0; start < len(words); start += maxWords {
			end := start + maxWords
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, strings.Join(words[start:end], " "))
		}
	}

	return chunks
}

func splitSentences(text string) []string {
	var sentences []string
	var builder strings.Builder

	for i := 0; i < len(text); i++ {
		builder.WriteByte(text[i])
		if _, ok := sentenceEnders[text[i]]; ok {
			sentence := strings.TrimSpace(builder.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			builder.Reset()
		}
	}

	if tail := strings.TrimSpace(builder.String()); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}
