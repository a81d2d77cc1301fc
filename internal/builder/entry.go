// Package builder transforms routed candidates into the two persisted
// catalog document shapes: published entries and pending submissions.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/identifier"
	"github.com/heytulsiprasad/clawdex/internal/logger"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 200
)

// Enrichment shape errors surfaced as item-level build failures.
var (
	ErrMissingTitle     = errors.New("enrichment title is empty")
	ErrMissingSourceURL = errors.New("candidate source url is empty")
	ErrEmptySlug        = errors.New("enrichment title produced an empty slug")
)

// MediaProcessor converts candidate media into catalog media records.
type MediaProcessor interface {
	ProcessMedia(ctx context.Context, media []domain.MediaURL, author domain.Author, urlHash string) []domain.MediaRecord
}

// EntryBuilder builds published entry documents from high-confidence
// candidates.
type EntryBuilder struct {
	media  MediaProcessor
	logger logger.Logger
}

// NewEntryBuilder creates a published entry builder.
func NewEntryBuilder(media MediaProcessor, log logger.Logger) *EntryBuilder {
	return &EntryBuilder{media: media, logger: log}
}

// Build derives a PublishedEntry from an accepted candidate. The document id
// comes from a slug of the enriched title, so re-running the pipeline on the
// same input overwrites rather than duplicates.
func (b *EntryBuilder) Build(ctx context.Context, item domain.CandidateItem) (*domain.PublishedEntry, error) {
	if item.SourceURL == "" {
		return nil, ErrMissingSourceURL
	}
	if item.Enrichment.Title == "" {
		return nil, ErrMissingTitle
	}

	slug := identifier.Slugify(item.Enrichment.Title)
	if slug == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptySlug, item.Enrichment.Title)
	}
	urlHash := identifier.HashURL(item.SourceURL)

	categoryID, known := lookupCategory(item.Enrichment.Category)
	if !known {
		b.logger.Warn("unknown enrichment category, falling back",
			logger.String("category", item.Enrichment.Category),
			logger.String("fallback", FallbackCategorySlug),
			logger.String("source_url", item.SourceURL))
	}

	media := b.media.ProcessMedia(ctx, item.MediaURLs, item.Author, urlHash)

	entry := &domain.PublishedEntry{
		ID:          "entry-" + slug,
		Title:       identifier.Truncate(item.Enrichment.Title, maxTitleLength),
		Slug:        slug,
		Description: identifier.Truncate(item.Enrichment.Description, maxDescriptionLength),
		// Enrichment prose is plain text; one paragraph block, no markup.
		LongDescription: []domain.TextBlock{
			{Key: "block-0", Style: "normal", Text: item.Enrichment.LongDescription},
		},
		Category:   categoryID,
		Complexity: item.Enrichment.Complexity,
		Type:       item.Enrichment.Type,
		Channels:   emptyIfNil(item.Enrichment.Channels),
		Personas:   emptyIfNil(item.Enrichment.Personas),
		// Resolving free-text integration slugs to catalog references needs
		// a separate pre-creation step; auto-published entries always start
		// with none.
		Integrations:    []string{},
		Creator:         item.Author,
		SourceURL:       item.SourceURL,
		SourcePlatform:  item.SourcePlatform,
		Media:           media,
		Upvotes:         0,
		Featured:        false,
		AIConfidence:    item.Enrichment.Confidence,
		DiscoverySource: "auto-" + item.SourcePlatform,
	}
	return entry, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
