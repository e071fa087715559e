package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kochj23/NewsMobile/internal/model"
)

func TestEntityTypeMapping(t *testing.T) {
	assert.Equal(t, model.EntityPerson, entityType("PERSON"))
	assert.Equal(t, model.EntityPlace, entityType("GPE"))
	assert.Equal(t, model.EntityPlace, entityType("LOC"))
	assert.Equal(t, model.EntityOrganization, entityType("ORG"))
	assert.Equal(t, model.EntityOrganization, entityType("anything else"))
}

func TestExtractDeduplicates(t *testing.T) {
	e := NewEntityExtractor()
	entities := e.Extract("Microsoft sued Microsoft over the Microsoft brand.")

	seen := map[string]struct{}{}
	for _, ent := range entities {
		_, dup := seen[ent.Text]
		assert.False(t, dup, "entity %q appears twice", ent.Text)
		seen[ent.Text] = struct{}{}
		assert.NotEmpty(t, ent.Type)
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewEntityExtractor()
	assert.Empty(t, e.Extract(""))
}

func TestKeywordsAreLowercaseAndDeduplicated(t *testing.T) {
	tagger := NewTextTagger()
	keywords := tagger.Keywords("The president announced tariffs while the president watched markets.")

	seen := map[string]struct{}{}
	for _, kw := range keywords {
		assert.Equal(t, kw, strings.ToLower(kw), "keyword %q not lowercased", kw)
		assert.Greater(t, len(kw), 3)
		_, dup := seen[kw]
		assert.False(t, dup, "keyword %q appears twice", kw)
		seen[kw] = struct{}{}
	}
}

func TestTopicsEmptyText(t *testing.T) {
	tagger := NewTextTagger()
	assert.Empty(t, tagger.Topics(""))
}

func TestPOSHelpers(t *testing.T) {
	assert.True(t, isNoun("NN"))
	assert.True(t, isNoun("NNPS"))
	assert.False(t, isNoun("JJ"))
	assert.True(t, isVerb("VBD"))
	assert.False(t, isVerb("RB"))
}
