package scoring

import (
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// PairwiseMax computes, for every submission, the maximum lexical similarity
// of its answer against any other submission's answer to the same question.
// Similarity is document-frequency-weighted term-vector cosine. A single
// near-duplicate is sufficient signal, so the maximum is taken rather than
// the average. Empty answers score 0 against everything.
func PairwiseMax(answers map[int64]string) map[int64]float64 {
	vectors := make(map[int64]map[string]float64, len(answers))
	df := make(map[string]int)

	for id, answer := range answers {
		counts := termCounts(answer)
		vectors[id] = counts
		for term := range counts {
			df[term]++
		}
	}

	docCount := float64(len(answers))
	weighted := make(map[int64]map[string]float64, len(vectors))
	for id, counts := range vectors {
		vec := make(map[string]float64, len(counts))
		for term, count := range counts {
			idf := math.Log(1 + docCount/float64(df[term]))
			vec[term] = count * idf
		}
		weighted[id] = vec
	}

	scores := make(map[int64]float64, len(answers))
	for id := range answers {
		scores[id] = 0
	}

	ids := make([]int64, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			similarity := cosine(weighted[ids[i]], weighted[ids[j]])
			if similarity > scores[ids[i]] {
				scores[ids[i]] = similarity
			}
			if similarity > scores[ids[j]] {
				scores[ids[j]] = similarity
			}
		}
	}

	return scores
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, term := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		counts[term]++
	}
	return counts
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineVectors computes cosine similarity between two embedding vectors.
func CosineVectors(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
