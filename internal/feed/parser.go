// Package feed turns remote syndication feeds into canonical articles:
// tolerant RSS/Atom parsing, the built-in source catalog, user-added feeds
// and the HTTP fetch client.
package feed

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/model"
)

// Parser normalizes one feed payload into articles for its owning source.
// It tolerates RSS 2.0 and Atom vocabularies in one pass.
type Parser struct {
	fp *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Fallback formats tried in order when the feed library could not parse the
// publish date itself: RFC-822 style first, then two ISO-8601 variants.
var dateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999Z07:00",
}

// Parse converts raw bytes into articles. Malformed payloads yield an empty
// slice, never an error: one broken source must not abort a batch. Items
// without a non-empty title or a parseable link are dropped silently.
func (p *Parser) Parse(data []byte, source model.Source) []model.Article {
	f, err := p.fp.Parse(bytes.NewReader(data))
	if err != nil {
		logger.Warn("feed parse failed", "source", source.Name, "err", err)
		return nil
	}

	articles := make([]model.Article, 0, len(f.Items))
	for _, item := range f.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || !validLink(link) {
			continue
		}

		articles = append(articles, model.Article{
			ID:          uuid.New(),
			Title:       title,
			Description: cleanDescription(itemDescription(item)),
			Link:        link,
			PubDate:     publishDate(item),
			Source:      source,
			Category:    source.Category,
			ImageURL:    imageURL(item),
		})
	}
	return articles
}

func validLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// itemDescription picks the first populated summary-ish field.
func itemDescription(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

// publishDate prefers what the feed library already parsed, then walks the
// fallback format list over the raw strings, then substitutes now.
func publishDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	for _, raw := range []string{item.Published, item.Updated} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, raw); err == nil {
				return t
			}
		}
	}
	return time.Now()
}

// imageURL resolves an image from media extensions, then enclosures typed
// as images, then the item-level image.
func imageURL(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.Contains(enc.Type, "image") && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)
)

// cleanDescription strips markup and entities from a summary fragment and
// collapses whitespace. An empty result becomes "no description".
func cleanDescription(html string) string {
	var text string
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	} else {
		text = entityReplacer.Replace(tagPattern.ReplaceAllString(html, " "))
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "no description"
	}
	return text
}
