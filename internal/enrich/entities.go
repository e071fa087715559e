package enrich

import (
	prose "github.com/jdkato/prose/v2"

	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/model"
)

// EntityExtractor runs named-entity recognition over title text. Extraction
// failure leaves the annotation absent; the article stays in the batch.
type EntityExtractor struct{}

func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract returns entity spans in first-seen order, deduplicated by exact
// text; the first occurrence decides the type.
func (e *EntityExtractor) Extract(text string) []model.Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		logger.Debug("entity extraction failed", "err", err)
		return nil
	}

	var entities []model.Entity
	seen := map[string]struct{}{}
	for _, ent := range doc.Entities() {
		if _, dup := seen[ent.Text]; dup {
			continue
		}
		seen[ent.Text] = struct{}{}
		entities = append(entities, model.Entity{Text: ent.Text, Type: entityType(ent.Label)})
	}
	return entities
}

func entityType(label string) model.EntityType {
	switch label {
	case "PERSON":
		return model.EntityPerson
	case "GPE", "LOC", "LOCATION":
		return model.EntityPlace
	default:
		return model.EntityOrganization
	}
}
