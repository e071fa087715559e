// Package model holds the canonical records shared by every engine:
// sources, articles, derived annotations, clusters, the user profile and
// the persisted settings. Nothing here does I/O.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a news section. The set is fixed; custom feeds pick one.
type Category string

const (
	CategoryTopStories    Category = "Top Stories"
	CategoryUS            Category = "US"
	CategoryWorld         Category = "World"
	CategoryBusiness      Category = "Business"
	CategoryTechnology    Category = "Technology"
	CategoryScience       Category = "Science"
	CategoryHealth        Category = "Health"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryPolitics      Category = "Politics"
)

// AllCategories lists every declared category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryTopStories, CategoryUS, CategoryWorld, CategoryBusiness,
		CategoryTechnology, CategoryScience, CategoryHealth, CategorySports,
		CategoryEntertainment, CategoryPolitics,
	}
}

// Bias is the editorial-bias label of a source.
type Bias string

const (
	BiasLeft      Bias = "Left"
	BiasLeanLeft  Bias = "Lean Left"
	BiasCenter    Bias = "Center"
	BiasLeanRight Bias = "Lean Right"
	BiasRight     Bias = "Right"
	BiasUnknown   Bias = "Unknown"
)

// Source identifies one feed endpoint. Immutable once constructed.
type Source struct {
	Name        string   `json:"name" yaml:"name"`
	FeedURL     string   `json:"feed_url" yaml:"url"`
	Category    Category `json:"category" yaml:"category"`
	Bias        Bias     `json:"bias" yaml:"bias"`
	Reliability float64  `json:"reliability" yaml:"reliability"` // [0,1]
}

// Article is the canonical record produced by the feed parser. Identity is
// the ID alone; two fetches of the same story get distinct IDs and are only
// merged by explicit dedup on link or title.
type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link"`
	PubDate     time.Time  `json:"pub_date"`
	Source      Source     `json:"source"`
	Category    Category   `json:"category"`
	ImageURL    string     `json:"image_url,omitempty"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
	Entities    []Entity   `json:"entities,omitempty"`
	IsBreaking  bool       `json:"is_breaking"`
}

// SentimentLabel buckets a score: >0.1 positive, <-0.1 negative, else neutral.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// Sentiment is a scalar score in [-1,1] plus its derived label.
type Sentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// LabelForScore derives the sentiment label from a raw score. The boundary
// values 0.1 and -0.1 are neutral.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// EntityType classifies an extracted span.
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityPlace        EntityType = "Place"
)

// Entity is a named-entity span extracted from article text.
type Entity struct {
	Text string     `json:"text"`
	Type EntityType `json:"type"`
}

// StoryCluster groups coverage of one story across at least two sources,
// members newest first. Clusters are recomputed from scratch every pass.
type StoryCluster struct {
	ID           uuid.UUID             `json:"id"`
	Topic        string                `json:"topic"`
	Articles     []Article             `json:"articles"`
	Perspectives *PerspectiveBreakdown `json:"perspectives,omitempty"`
}

// SourceCount reports how many distinct sources contribute to the cluster.
func (c StoryCluster) SourceCount() int {
	seen := map[string]struct{}{}
	for _, a := range c.Articles {
		seen[a.Source.Name] = struct{}{}
	}
	return len(seen)
}

// PerspectiveBreakdown summarizes how bias buckets cover a cluster.
// Contentions is reserved for future semantic-diff work and stays empty.
type PerspectiveBreakdown struct {
	LeftPerspective   string   `json:"left_perspective,omitempty"`
	CenterPerspective string   `json:"center_perspective,omitempty"`
	RightPerspective  string   `json:"right_perspective,omitempty"`
	SharedFacts       []string `json:"shared_facts"`
	Contentions       []string `json:"contentions"`
}

// TrendingTopic is one entry of the trending board.
type TrendingTopic struct {
	Name         string   `json:"name"`
	ArticleCount int      `json:"article_count"`
	Category     Category `json:"category,omitempty"`
}

// KeywordAlert is a persistent case-insensitive watch keyword.
type KeywordAlert struct {
	ID            uuid.UUID  `json:"id"`
	Keyword       string     `json:"keyword"`
	IsEnabled     bool       `json:"is_enabled"`
	NotifyOnMatch bool       `json:"notify_on_match"`
	MatchCount    int        `json:"match_count"`
	LastMatchDate *time.Time `json:"last_match_date,omitempty"`
}

// NewKeywordAlert returns an enabled, notifying alert for keyword.
func NewKeywordAlert(keyword string) KeywordAlert {
	return KeywordAlert{
		ID:            uuid.New(),
		Keyword:       keyword,
		IsEnabled:     true,
		NotifyOnMatch: true,
	}
}

// CustomFeed is a user-added feed. Validated at add time.
type CustomFeed struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Category      Category   `json:"category"`
	IsEnabled     bool       `json:"is_enabled"`
	LastFetchDate *time.Time `json:"last_fetch_date,omitempty"`
	ArticleCount  int        `json:"article_count"`
}

// WatchLaterItem is a saved article in the read-later queue.
type WatchLaterItem struct {
	ID        uuid.UUID `json:"id"`
	Article   Article   `json:"article"`
	AddedDate time.Time `json:"added_date"`
	IsRead    bool      `json:"is_read"`
}

// UserPreferenceProfile accumulates per-user interest weights. Owned and
// mutated only by the personalization engine.
type UserPreferenceProfile struct {
	CategoryPreferences map[Category]float64        `json:"category_preferences"`
	SourcePreferences   map[string]float64          `json:"source_preferences"`
	TopicInterests      map[string]float64          `json:"topic_interests"`
	ViewedArticleIDs    map[uuid.UUID]struct{}      `json:"viewed_article_ids"`
	ReadDuration        map[uuid.UUID]time.Duration `json:"read_duration"`
}

// NewProfile returns an empty profile with all maps allocated.
func NewProfile() UserPreferenceProfile {
	return UserPreferenceProfile{
		CategoryPreferences: map[Category]float64{},
		SourcePreferences:   map[string]float64{},
		TopicInterests:      map[string]float64{},
		ViewedArticleIDs:    map[uuid.UUID]struct{}{},
		ReadDuration:        map[uuid.UUID]time.Duration{},
	}
}

// Settings is the persisted configuration record. Only the fields the core
// consumes live here; presentation settings belong to the caller.
type Settings struct {
	FilterAds             bool           `json:"filter_ads"`
	FilterClickbait       bool           `json:"filter_clickbait"`
	ExcludedSources       []string       `json:"excluded_sources"`
	EnablePersonalization bool           `json:"enable_personalization"`
	EnableNotifications   bool           `json:"enable_notifications"`
	RefreshInterval       int            `json:"refresh_interval"` // minutes, informational
	KeywordAlerts         []KeywordAlert `json:"keyword_alerts"`
	CustomFeeds           []CustomFeed   `json:"custom_feeds"`
}

// DefaultSettings mirrors the defaults of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		FilterAds:             true,
		FilterClickbait:       true,
		EnablePersonalization: true,
		EnableNotifications:   true,
		RefreshInterval:       15,
	}
}
