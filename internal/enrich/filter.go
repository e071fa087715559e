package enrich

import (
	"regexp"
	"strings"

	"github.com/kochj23/NewsMobile/internal/metrics"
	"github.com/kochj23/NewsMobile/internal/model"
)

var adKeywords = []string{
	"sponsored", "advertisement", "ad:", "[ad]", "promoted",
	"partner content", "paid content", "affiliate", "deal alert",
	"promo code", "discount code", "save now", "limited time offer",
	"buy now", "shop now", "exclusive offer", "special offer",
}

var suspiciousSources = []string{
	"outbrain", "taboola", "revcontent", "content.ad",
	"mgid", "zergnet", "around the web",
}

var clickbaitPatterns = []string{
	`you won't believe`,
	`shocking`,
	`mind-blowing`,
	`what happens next`,
	`doctors hate`,
	`one weird trick`,
	`number \d+ will`,
	`\d+ things you`,
	`this is why`,
	`here's why`,
}

// FilterOptions selects which checks run; each is independently toggleable.
type FilterOptions struct {
	FilterAds       bool
	FilterClickbait bool
	ExcludedSources []string // case-insensitive source-name substrings
}

// Filter drops advertising and clickbait items from a batch.
type Filter struct {
	clickbait []*regexp.Regexp
}

func NewFilter() *Filter {
	patterns := make([]*regexp.Regexp, 0, len(clickbaitPatterns))
	for _, p := range clickbaitPatterns {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+p))
	}
	return &Filter{clickbait: patterns}
}

// Apply returns the articles surviving every enabled check, preserving
// relative order.
func (f *Filter) Apply(articles []model.Article, opts FilterOptions) []model.Article {
	kept := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if opts.FilterAds && f.IsAdvertisement(a) {
			metrics.Global.IncrementAdsFiltered()
			continue
		}
		if opts.FilterClickbait && f.IsClickbait(a) {
			metrics.Global.IncrementClickbaitFiltered()
			continue
		}
		if excludedSource(a.Source.Name, opts.ExcludedSources) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// IsAdvertisement matches the fixed keyword list against title and summary
// and the suspicious-domain list against the source name.
func (f *Filter) IsAdvertisement(a model.Article) bool {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)
	source := strings.ToLower(a.Source.Name)

	for _, keyword := range adKeywords {
		if strings.Contains(title, keyword) || strings.Contains(description, keyword) {
			return true
		}
	}
	for _, suspicious := range suspiciousSources {
		if strings.Contains(source, suspicious) {
			return true
		}
	}
	return false
}

// IsClickbait matches the fixed phrase patterns against the title.
func (f *Filter) IsClickbait(a model.Article) bool {
	for _, pattern := range f.clickbait {
		if pattern.MatchString(a.Title) {
			return true
		}
	}
	return false
}

func excludedSource(source string, excluded []string) bool {
	source = strings.ToLower(source)
	for _, substr := range excluded {
		if substr != "" && strings.Contains(source, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
