package builder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
)

// stubMedia returns canned media records and captures the call.
type stubMedia struct {
	records  []domain.MediaRecord
	gotHash  string
	gotMedia []domain.MediaURL
}

func (s *stubMedia) ProcessMedia(_ context.Context, media []domain.MediaURL, _ domain.Author, urlHash string) []domain.MediaRecord {
	s.gotMedia = media
	s.gotHash = urlHash
	return s.records
}

func sampleCandidate() domain.CandidateItem {
	published := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	return domain.CandidateItem{
		SourceURL:      "https://x.com/builder/status/42",
		SourcePlatform: domain.PlatformTwitter,
		RawText:        "I wired an agent to triage my inbox overnight",
		Author:         domain.Author{Handle: "builder", Name: "A Builder"},
		Engagement:     domain.Engagement{Likes: 10, Comments: 2, Views: 300},
		MediaURLs:      []domain.MediaURL{{URL: "https://cdn.x.com/1.png", Type: domain.MediaTypeImage}},
		PublishedAt:    &published,
		DiscoveredAt:   time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC),
		Enrichment: domain.Enrichment{
			IsRelevant:      true,
			Confidence:      0.95,
			Title:           "Overnight Inbox Triage Agent",
			Description:     "An agent that reads, labels and drafts replies while you sleep.",
			LongDescription: "Longer prose about the workflow.",
			Category:        "automation",
			Complexity:      "intermediate",
			Type:            "workflow",
			Channels:        []string{"email"},
			Personas:        []string{"founder"},
			Integrations:    []string{"gmail"},
		},
	}
}

func TestEntryBuilder_Build(t *testing.T) {
	media := &stubMedia{records: []domain.MediaRecord{{Key: "image-0", Type: domain.MediaTypeImage, AssetID: "asset-1"}}}
	b := NewEntryBuilder(media, logger.NewNop())

	entry, err := b.Build(context.Background(), sampleCandidate())
	require.NoError(t, err)

	assert.Equal(t, "entry-overnight-inbox-triage-agent", entry.ID)
	assert.Equal(t, "overnight-inbox-triage-agent", entry.Slug)
	assert.Equal(t, "Overnight Inbox Triage Agent", entry.Title)
	assert.Equal(t, "category-automation", entry.Category)
	assert.Equal(t, "auto-twitter", entry.DiscoverySource)
	assert.Equal(t, 0, entry.Upvotes)
	assert.False(t, entry.Featured)
	assert.Equal(t, 0.95, entry.AIConfidence)

	// Integrations are deliberately unresolved on auto-published entries.
	require.NotNil(t, entry.Integrations)
	assert.Empty(t, entry.Integrations)

	require.Len(t, entry.LongDescription, 1)
	assert.Equal(t, "normal", entry.LongDescription[0].Style)
	assert.Equal(t, "Longer prose about the workflow.", entry.LongDescription[0].Text)

	require.Len(t, entry.Media, 1)
	assert.Equal(t, "asset-1", entry.Media[0].AssetID)
	assert.Len(t, media.gotHash, 16, "media processing receives the url hash")
}

func TestEntryBuilder_TruncatesTitleAndDescription(t *testing.T) {
	item := sampleCandidate()
	item.Enrichment.Title = strings.Repeat("Very Long Title ", 20)
	item.Enrichment.Description = strings.Repeat("description ", 40)

	b := NewEntryBuilder(&stubMedia{}, logger.NewNop())
	entry, err := b.Build(context.Background(), item)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(entry.Title), 100)
	assert.LessOrEqual(t, len(entry.Description), 200)
	assert.LessOrEqual(t, len(entry.Slug), 96)
}

func TestEntryBuilder_UnknownCategoryFallsBack(t *testing.T) {
	item := sampleCandidate()
	item.Enrichment.Category = "quantum-gardening"

	b := NewEntryBuilder(&stubMedia{}, logger.NewNop())
	entry, err := b.Build(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "category-productivity", entry.Category)
}

func TestEntryBuilder_ShapeErrors(t *testing.T) {
	b := NewEntryBuilder(&stubMedia{}, logger.NewNop())
	ctx := context.Background()

	missingTitle := sampleCandidate()
	missingTitle.Enrichment.Title = ""
	_, err := b.Build(ctx, missingTitle)
	assert.ErrorIs(t, err, ErrMissingTitle)

	missingURL := sampleCandidate()
	missingURL.SourceURL = ""
	_, err = b.Build(ctx, missingURL)
	assert.ErrorIs(t, err, ErrMissingSourceURL)

	junkTitle := sampleCandidate()
	junkTitle.Enrichment.Title = "!!! ***"
	_, err = b.Build(ctx, junkTitle)
	assert.ErrorIs(t, err, ErrEmptySlug)
}

func TestBuildPendingSubmission(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	item := sampleCandidate()
	item.Enrichment.Confidence = 0.45

	sub, err := BuildPendingSubmission(item, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sub.ID, "submission-"), "id is hash-derived")
	assert.Len(t, strings.TrimPrefix(sub.ID, "submission-"), 16)
	assert.Equal(t, domain.SubmissionPending, sub.Status)
	assert.Equal(t, now, sub.SubmittedAt)
	assert.Equal(t, 0.45, sub.AIConfidence)
	assert.True(t, sub.IsRelevant)
	assert.Equal(t, 312, sub.Engagement, "likes+comments+views aggregated")
	assert.Equal(t, *item.PublishedAt, sub.PostedAt, "publish date preferred over discovery date")
	assert.Equal(t, []string{"https://cdn.x.com/1.png"}, sub.MediaURLs)
	assert.Equal(t, "overnight-inbox-triage-agent", sub.Slug)
	assert.Equal(t, []string{"gmail"}, sub.AIIntegrations, "submissions keep the free-text integrations for review")
}

func TestBuildPendingSubmission_Truncation(t *testing.T) {
	now := time.Now()
	item := sampleCandidate()
	item.RawText = strings.Repeat("raw text ", 1000)
	item.Enrichment.Description = strings.Repeat("meta ", 100)

	sub, err := BuildPendingSubmission(item, now)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(sub.RawText), 5000)
	assert.LessOrEqual(t, len(sub.MetaDescription), 160)
}

func TestBuildPendingSubmission_FallsBackToDiscoveryDate(t *testing.T) {
	item := sampleCandidate()
	item.PublishedAt = nil

	sub, err := BuildPendingSubmission(item, time.Now())
	require.NoError(t, err)
	assert.Equal(t, item.DiscoveredAt, sub.PostedAt)
}

func TestBuildPendingSubmission_MissingSourceURL(t *testing.T) {
	item := sampleCandidate()
	item.SourceURL = ""
	_, err := BuildPendingSubmission(item, time.Now())
	assert.ErrorIs(t, err, ErrMissingSourceURL)
}
