// Package enrich derives per-article annotations: sentiment, named
// entities, and the ad/clickbait verdicts used by content filtering. All of
// it is stateless and deterministic for identical input text.
package enrich

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/kochj23/NewsMobile/internal/model"
)

// SentimentScorer scores text with the VADER lexicon: each paragraph gets a
// compound score in [-1,1] and the article score is their average.
type SentimentScorer struct{}

func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

func (s *SentimentScorer) Analyze(text string) *model.Sentiment {
	var total float64
	var count int

	for _, paragraph := range splitParagraphs(text) {
		parsed := sentitext.Parse(paragraph, lexicon.DefaultLexicon)
		total += sentitext.PolarityScore(parsed).Compound
		count++
	}

	var score float64
	if count > 0 {
		score = total / float64(count)
	}
	return &model.Sentiment{Score: score, Label: model.LabelForScore(score)}
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}
