// Package domain defines the data model for the clawdex discovery pipeline:
// externally discovered candidate items on the input side and the two
// persisted catalog document shapes on the output side.
package domain

import "time"

// Source platforms a candidate can be discovered on.
const (
	PlatformTwitter    = "twitter"
	PlatformReddit     = "reddit"
	PlatformYouTube    = "youtube"
	PlatformGitHub     = "github"
	PlatformHackerNews = "hackernews"
	PlatformDevTo      = "devto"
	PlatformOther      = "other"
)

// Media types carried on a candidate.
const (
	MediaTypeImage     = "image"
	MediaTypeVideo     = "video"
	MediaTypeGIF       = "gif"
	MediaTypeThumbnail = "thumbnail"
)

// Author identifies the creator of a discovered post.
type Author struct {
	Handle     string `json:"handle"`
	Name       string `json:"name,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// Engagement holds raw per-platform engagement counters.
// Missing counters are zero.
type Engagement struct {
	Likes    int `json:"likes,omitempty"`
	Comments int `json:"comments,omitempty"`
	Shares   int `json:"shares,omitempty"`
	Views    int `json:"views,omitempty"`
}

// MediaURL references one media item attached to a discovered post.
type MediaURL struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	AltText string `json:"altText,omitempty"`
}

// Enrichment is the AI-classifier output attached to a candidate.
// It is produced upstream and treated as trusted input.
type Enrichment struct {
	IsRelevant      bool     `json:"isRelevant"`
	Confidence      float64  `json:"confidence"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	Complexity      string   `json:"complexity"`
	Type            string   `json:"type"`
	Channels        []string `json:"channels"`
	Personas        []string `json:"personas"`
	Integrations    []string `json:"integrations"`
}

// CandidateItem is one externally discovered post, the pipeline's unit of
// work. Candidates are immutable once read from input; the pipeline only
// derives documents from them.
type CandidateItem struct {
	SourceURL      string     `json:"sourceUrl"`
	SourcePlatform string     `json:"sourcePlatform"`
	RawText        string     `json:"rawText"`
	Title          string     `json:"title,omitempty"`
	Author         Author     `json:"author"`
	Engagement     Engagement `json:"engagement"`
	MediaURLs      []MediaURL `json:"mediaUrls,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	DiscoveredAt   time.Time  `json:"discoveredAt"`
	Tags           []string   `json:"tags,omitempty"`
	ParentURL      string     `json:"parentUrl,omitempty"`
	Enrichment     Enrichment `json:"enrichment"`
}

// DiscoveryBatch is a named, timestamped group of candidates sharing a run
// and source platform. Batches are processed independently.
type DiscoveryBatch struct {
	Version      int             `json:"version"`
	DiscoveredAt time.Time       `json:"discoveredAt"`
	RunID        string          `json:"runId"`
	Platform     string          `json:"platform"`
	Items        []CandidateItem `json:"items"`
}
