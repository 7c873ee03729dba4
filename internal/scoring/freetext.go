package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

const (
	keywordWeight      = 0.4
	clarityWeight      = 0.3
	completenessWeight = 0.2
	relevanceWeight    = 0.1
)

// FreeTextScorer grades open answers with keyword, clarity, completeness and
// relevance heuristics.
type FreeTextScorer struct {
	vocabulary map[string]struct{}
}

func NewFreeTextScorer(vocabulary []string) *FreeTextScorer {
	vocab := make(map[string]struct{}, len(vocabulary))
	for _, term := range vocabulary {
		vocab[Normalize(term)] = struct{}{}
	}
	return &FreeTextScorer{vocabulary: vocab}
}

func (s *FreeTextScorer) Score(q *models.Question, answer string) (Result, error) {
	if len(q.ExpectedKeywords) == 0 {
		return Result{}, ErrMissingKeywords
	}

	text := strings.TrimSpace(answer)
	lower := strings.ToLower(text)

	matched, missed := MatchKeywords(lower, q.ExpectedKeywords)
	b := Breakdown{
		Keyword:      round2(float64(len(matched)) / float64(len(q.ExpectedKeywords)) * 100),
		Clarity:      s.clarity(text, lower),
		Completeness: completeness(q.Prompt, text, lower),
		Relevance:    relevance(q.Prompt, lower),
	}

	overall := clamp(math.Round(keywordWeight*b.Keyword +
		clarityWeight*b.Clarity +
		completenessWeight*b.Completeness +
		relevanceWeight*b.Relevance))

	res := Result{
		Score:        overall,
		Confidence:   confidence(overall, charCount(text)),
		KeywordScore: b.Keyword,
		Breakdown:    &b,
	}
	res.Feedback = freeTextFeedback(q, text, lower, b, overall, matched, missed)
	return res, nil
}

func (s *FreeTextScorer) clarity(text, lower string) float64 {
	score := 50.0
	n := charCount(text)
	switch {
	case n > 100:
		score += 20
	case n > 50:
		score += 10
	}
	if strings.ContainsAny(text, ".!?") {
		score += 10
	}
	if strings.Contains(text, ",") {
		score += 5
	}
	if hasToken(lower, "because", "therefore") {
		score += 10
	}
	for _, tok := range uniqueTokens(lower) {
		if _, ok := s.vocabulary[tok]; ok {
			score += 5
		}
	}
	return math.Min(score, 100)
}

func completeness(prompt, text, lower string) float64 {
	score := 50.0
	questionWords := len(strings.Fields(prompt))
	answerWords := len(strings.Fields(text))
	if questionWords > 0 {
		ratio := float64(answerWords) / float64(questionWords)
		switch {
		case ratio > 2:
			score += 20
		case ratio > 1:
			score += 10
		}
	}

	p := strings.ToLower(prompt)
	n := charCount(text)
	if strings.Contains(p, "explain") && n > 200 {
		score += 10
	}
	if strings.Contains(p, "compare") && (hasToken(lower, "vs", "versus") || containsAny(lower, "compared to", "whereas")) {
		score += 10
	}
	if strings.Contains(p, "describe") && n > 150 {
		score += 10
	}
	if strings.Contains(p, "example") && containsAny(lower, "for example", "e.g.", "for instance") {
		score += 10
	}
	return math.Min(score, 100)
}

func relevance(prompt, lower string) float64 {
	var terms []string
	for _, tok := range uniqueTokens(prompt) {
		if charCount(tok) > 3 {
			terms = append(terms, tok)
		}
	}
	if len(terms) == 0 {
		return 50
	}
	found := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			found++
		}
	}
	return math.Min(round2(50+30*float64(found)/float64(len(terms))), 100)
}

func confidence(overall float64, length int) int {
	c := overall
	switch {
	case length > 200:
		c += 10
	case length < 50:
		c -= 20
	}
	return int(clamp(c))
}

func freeTextFeedback(q *models.Question, text, lower string, b Breakdown, overall float64, matched, missed []string) models.AnswerFeedback {
	fb := models.AnswerFeedback{
		Score:          overall,
		Strengths:      []string{},
		Improvements:   []string{},
		Suggestions:    []string{},
		KeywordMatches: len(matched),
		KeywordMissed:  missed,
	}

	if b.Keyword >= 70 {
		fb.Strengths = append(fb.Strengths, "Covered most of the key concepts")
	}
	if b.Clarity >= 80 {
		fb.Strengths = append(fb.Strengths, "Clear and well-structured explanation")
	}
	if b.Completeness >= 80 {
		fb.Strengths = append(fb.Strengths, "Thorough and detailed answer")
	}
	if b.Relevance >= 70 {
		fb.Strengths = append(fb.Strengths, "Stayed focused on the question")
	}

	if b.Keyword < 50 {
		fb.Improvements = append(fb.Improvements, "Address more of the key concepts the question is looking for")
	}
	if b.Clarity < 60 {
		fb.Improvements = append(fb.Improvements, "Structure the answer with complete sentences and clear reasoning")
	}
	if b.Completeness < 60 {
		fb.Improvements = append(fb.Improvements, "Expand the answer with more detail")
	}
	if charCount(text) < 50 {
		fb.Improvements = append(fb.Improvements, "The answer is very short")
	}

	if len(missed) > 0 {
		shown := missed
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fb.Suggestions = append(fb.Suggestions, fmt.Sprintf("Consider discussing: %s", strings.Join(shown, ", ")))
	}
	if (q.Kind == models.KindBehavioral || q.Kind == models.KindSituational) && b.Completeness < 80 {
		fb.Suggestions = append(fb.Suggestions, "Use the STAR method (Situation, Task, Action, Result) to structure your answer")
	}
	if !containsAny(lower, "for example", "e.g.", "for instance") {
		fb.Suggestions = append(fb.Suggestions, "Support your points with a concrete example")
	}

	if len(fb.Strengths) == 0 {
		fb.Strengths = append(fb.Strengths, "You made a solid attempt at the question")
	}
	return fb
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
