package enrich

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
)

// TextTagger exposes the POS-driven token views the clustering and trending
// engines consume. Both engines accept it through a small interface so tests
// can substitute deterministic extractors.
type TextTagger struct{}

func NewTextTagger() *TextTagger {
	return &TextTagger{}
}

// Keywords returns lowercase noun and verb tokens longer than 3 characters,
// deduplicated in first-seen order.
func (t *TextTagger) Keywords(text string) []string {
	doc, err := prose.NewDocument(strings.ToLower(text), prose.WithSegmentation(false))
	if err != nil {
		return nil
	}

	var keywords []string
	seen := map[string]struct{}{}
	for _, tok := range doc.Tokens() {
		if !isNoun(tok.Tag) && !isVerb(tok.Tag) {
			continue
		}
		word := strings.ToLower(tok.Text)
		if len(word) <= 3 {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// Topics returns trending-topic candidates: named-entity spans longer than
// 2 characters, then capitalized nouns longer than 4 characters not already
// captured, in encounter order.
func (t *TextTagger) Topics(text string) []string {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil
	}

	var topics []string
	seen := map[string]struct{}{}
	add := func(topic string) {
		if _, dup := seen[topic]; dup {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	for _, ent := range doc.Entities() {
		if len(ent.Text) > 2 {
			add(ent.Text)
		}
	}
	for _, tok := range doc.Tokens() {
		if !isNoun(tok.Tag) || len(tok.Text) <= 4 {
			continue
		}
		first := []rune(tok.Text)[0]
		if unicode.IsUpper(first) {
			add(tok.Text)
		}
	}
	return topics
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func isVerb(tag string) bool {
	return strings.HasPrefix(tag, "VB")
}
