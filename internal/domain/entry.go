package domain

// Document kinds persisted in the catalog store.
const (
	KindUseCase    = "useCase"
	KindSubmission = "submission"
)

// Submission review states.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// TextBlock is a single rich-text paragraph. Enrichment prose is stored as
// plain text inside one block; no markup parsing happens in the pipeline.
type TextBlock struct {
	Key   string `json:"_key"`
	Style string `json:"style"`
	Text  string `json:"text"`
}

// MediaRecord is one processed media item on a published entry. Images
// reference an uploaded catalog asset; videos carry the original URL as an
// embed. Key is stable per source item for list diffing downstream.
type MediaRecord struct {
	Key     string `json:"_key"`
	Type    string `json:"type"`
	AssetID string `json:"assetId,omitempty"`
	URL     string `json:"url,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// PublishedEntry is an auto-accepted, publicly visible use case document.
// Its id is derived from the enriched title slug so re-ingestion of the same
// title overwrites rather than duplicates.
type PublishedEntry struct {
	ID              string        `json:"_id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Description     string        `json:"description"`
	LongDescription []TextBlock   `json:"longDescription"`
	Category        string        `json:"category"`
	Complexity      string        `json:"complexity"`
	Type            string        `json:"type"`
	Channels        []string      `json:"channels"`
	Personas        []string      `json:"personas"`
	Integrations    []string      `json:"integrations"`
	Creator         Author        `json:"creator"`
	SourceURL       string        `json:"sourceUrl"`
	SourcePlatform  string        `json:"sourcePlatform"`
	Media           []MediaRecord `json:"media"`
	Upvotes         int           `json:"upvotes"`
	Featured        bool          `json:"featured"`
	AIConfidence    float64       `json:"aiConfidence"`
	DiscoverySource string        `json:"discoverySource"`
}

// DocumentID returns the catalog document id.
func (e *PublishedEntry) DocumentID() string { return e.ID }

// DocumentKind returns the catalog document kind.
func (e *PublishedEntry) DocumentKind() string { return KindUseCase }

// DocumentSourceURL returns the dedup key for the document.
func (e *PublishedEntry) DocumentSourceURL() string { return e.SourceURL }
