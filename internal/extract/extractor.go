package extract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoMarkers indicates the document contains no Question#/Answer# markers
// at all. Callers must treat this as a wrongly formatted document, not as an
// assignment with zero questions.
var ErrNoMarkers = errors.New("no question/answer markers found")

var (
	questionMarker = regexp.MustCompile(`Question#(\d+)\s*:`)
	answerMarker   = regexp.MustCompile(`Answer#(\d+)\s*:`)
)

// Pair is one extracted question/answer, keyed by the question number.
type Pair struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QASet is the ordered extraction result for one document.
type QASet struct {
	Pairs []Pair `json:"pairs"`
}

// Len returns the number of extracted questions.
func (s QASet) Len() int {
	return len(s.Pairs)
}

// Answer returns the answer for a question number.
func (s QASet) Answer(number int) (string, bool) {
	for _, pair := range s.Pairs {
		if pair.Number == number {
			return pair.Answer, true
		}
	}
	return "", false
}

// Question returns the question text for a question number.
func (s QASet) Question(number int) (string, bool) {
	for _, pair := range s.Pairs {
		if pair.Number == number {
			return pair.Question, true
		}
	}
	return "", false
}

// Map renders the set in its persisted key/value form,
// {"Question#n": text, "Answer#n": text}.
func (s QASet) Map() map[string]string {
	out := make(map[string]string, len(s.Pairs)*2)
	for _, pair := range s.Pairs {
		out[fmt.Sprintf("Question#%d", pair.Number)] = pair.Question
		out[fmt.Sprintf("Answer#%d", pair.Number)] = pair.Answer
	}
	return out
}

// Extract parses raw document text into question/answer pairs. Each question
// segment runs from its Question# marker until the next Question# marker or
// the end of text; the answer, when present, is the part of the segment after
// the matching Answer# marker. Whitespace runs collapse to single spaces.
func Extract(raw string) (QASet, error) {
	markers := questionMarker.FindAllStringSubmatchIndex(raw, -1)
	if len(markers) == 0 {
		return QASet{}, ErrNoMarkers
	}

	set := QASet{Pairs: make([]Pair, 0, len(markers))}
	for i, marker := range markers {
		number, err := strconv.Atoi(raw[marker[2]:marker[3]])
		if err != nil {
			continue
		}

		segmentEnd := len(raw)
		if i+1 < len(markers) {
			segmentEnd = markers[i+1][0]
		}
		segment := raw[marker[1]:segmentEnd]

		question := segment
		answer := ""
		if loc := answerMarker.FindStringSubmatchIndex(segment); loc != nil {
			question = segment[:loc[0]]
			answer = segment[loc[1]:]
		}

		set.Pairs = append(set.Pairs, Pair{
			Number:   number,
			Question: collapseWhitespace(question),
			Answer:   collapseWhitespace(answer),
		})
	}

	sort.Slice(set.Pairs, func(i, j int) bool { return set.Pairs[i].Number < set.Pairs[j].Number })

	return set, nil
}

// Backfill returns the student extraction completed against the teacher key:
// every teacher question appears exactly once, with an empty answer when the
// student's document omitted it. Question text falls back to the teacher's
// wording when the student copy is missing or blank.
func Backfill(teacher, student QASet) QASet {
	result := QASet{Pairs: make([]Pair, 0, len(teacher.Pairs))}
	for _, key := range teacher.Pairs {
		pair := Pair{Number: key.Number, Question: key.Question}
		if text, ok := student.Question(key.Number); ok && text != "" {
			pair.Question = text
		}
		if answer, ok := student.Answer(key.Number); ok {
			pair.Answer = answer
		}
		result.Pairs = append(result.Pairs, pair)
	}
	return result
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
