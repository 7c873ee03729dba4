package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeywordsVariants(t *testing.T) {
	matched, missed := MatchKeywords("We used Load-Balancers and several caches with a read replica",
		[]string{"load balancer", "cache", "replicas", "sharding"})
	assert.Equal(t, []string{"load balancer", "cache", "replicas"}, matched)
	assert.Equal(t, []string{"sharding"}, missed)

	matched, _ = MatchKeywords("the loadbalancer sits in front", []string{"load balancer"})
	assert.Equal(t, []string{"load balancer"}, matched)

	matched, _ = MatchKeywords("many dependencies", []string{"dependency"})
	assert.Equal(t, []string{"dependency"}, matched)
}

func TestClarity(t *testing.T) {
	s := NewFreeTextScorer(DefaultVocabulary)
	text := "Fast because of the api, really."
	assert.Equal(t, 80.0, s.clarity(text, text))

	assert.Equal(t, 50.0, s.clarity("ok", "ok"))
}

func TestCompleteness(t *testing.T) {
	answer := "SQL vs NoSQL: SQL is relational whereas NoSQL is not, in general terms here friends"
	assert.Equal(t, 80.0, completeness("Compare SQL and NoSQL databases", answer, answer))
	assert.Equal(t, 50.0, completeness("Compare SQL and NoSQL databases", "", ""))
}

func TestRelevance(t *testing.T) {
	assert.Equal(t, 70.0, relevance("Explain database indexing", "a database uses indexing"))
	assert.Equal(t, 50.0, relevance("Why?", "because"))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 50, confidence(70, 30))
	assert.Equal(t, 80, confidence(70, 250))
	assert.Equal(t, 100, confidence(95, 250))
	assert.Equal(t, 0, confidence(10, 10))
	assert.Equal(t, 70, confidence(70, 100))
}
