package builder

import (
	"time"

	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/identifier"
)

const (
	maxRawTextLength  = 5000
	maxMetaDescLength = 160
)

// BuildPendingSubmission derives a PendingSubmission from a lower-confidence
// candidate. The document id comes from a hash of the source URL: pre-review,
// the AI-suggested title is not a trustworthy identity key. No I/O.
func BuildPendingSubmission(item domain.CandidateItem, now time.Time) (*domain.PendingSubmission, error) {
	if item.SourceURL == "" {
		return nil, ErrMissingSourceURL
	}

	urlHash := identifier.HashURL(item.SourceURL)

	postedAt := item.DiscoveredAt
	if item.PublishedAt != nil {
		postedAt = *item.PublishedAt
	}

	mediaURLs := make([]string, 0, len(item.MediaURLs))
	for _, m := range item.MediaURLs {
		mediaURLs = append(mediaURLs, m.URL)
	}

	sub := &domain.PendingSubmission{
		ID:             "submission-" + urlHash,
		SourceURL:      item.SourceURL,
		SourcePlatform: item.SourcePlatform,

		// Reviewers see more raw context than published entries keep.
		RawText:      identifier.Truncate(item.RawText, maxRawTextLength),
		AuthorHandle: item.Author.Handle,
		MediaURLs:    mediaURLs,
		PostedAt:     postedAt,
		Engagement:   identifier.TotalEngagement(item.Engagement),

		AITitle:         item.Enrichment.Title,
		AIDescription:   item.Enrichment.Description,
		AICategory:      item.Enrichment.Category,
		AIComplexity:    item.Enrichment.Complexity,
		AIIntegrations:  emptyIfNil(item.Enrichment.Integrations),
		AIPersonas:      emptyIfNil(item.Enrichment.Personas),
		Slug:            identifier.Slugify(item.Enrichment.Title),
		MetaDescription: identifier.Truncate(item.Enrichment.Description, maxMetaDescLength),
		IsRelevant:      item.Enrichment.IsRelevant,
		AIConfidence:    item.Enrichment.Confidence,

		Status:      domain.SubmissionPending,
		SubmittedAt: now,
	}
	return sub, nil
}
