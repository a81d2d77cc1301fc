package domain

import "time"

// PendingSubmission is a lower-confidence candidate queued for human review.
// Its id is derived from a hash of the source URL: pre-review, source
// identity is the trustworthy key, not the AI-suggested title.
type PendingSubmission struct {
	ID             string    `json:"_id"`
	SourceURL      string    `json:"sourceUrl"`
	SourcePlatform string    `json:"sourcePlatform"`

	// Raw extracted data, retained for the reviewer.
	RawText      string    `json:"rawText"`
	AuthorHandle string    `json:"authorHandle"`
	MediaURLs    []string  `json:"mediaUrls,omitempty"`
	PostedAt     time.Time `json:"postedAt"`
	Engagement   int       `json:"engagement"`

	// AI-enriched fields mirrored from the upstream classifier.
	AITitle         string   `json:"aiTitle"`
	AIDescription   string   `json:"aiDescription"`
	AICategory      string   `json:"aiCategory"`
	AIComplexity    string   `json:"aiComplexity"`
	AIIntegrations  []string `json:"aiIntegrations"`
	AIPersonas      []string `json:"aiPersonas"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"metaDescription"`
	IsRelevant      bool     `json:"isRelevant"`
	AIConfidence    float64  `json:"aiConfidence"`

	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// DocumentID returns the catalog document id.
func (s *PendingSubmission) DocumentID() string { return s.ID }

// DocumentKind returns the catalog document kind.
func (s *PendingSubmission) DocumentKind() string { return KindSubmission }

// DocumentSourceURL returns the dedup key for the document.
func (s *PendingSubmission) DocumentSourceURL() string { return s.SourceURL }
