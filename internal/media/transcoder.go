// Package media turns a candidate's remote media references into catalog
// media records: images are fetched and uploaded as binary assets, videos
// become lightweight embed records.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/heytulsiprasad/clawdex/internal/catalog"
	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultFetchRPS     = 4
	defaultMaxImages    = 4
	defaultMaxVideos    = 2

	// maxAssetBytes caps a single downloaded image.
	maxAssetBytes = 10 << 20

	defaultContentType = "image/jpeg"
	userAgent          = "Mozilla/5.0 (compatible; Clawdex-Discovery/1.0)"
)

// Config holds transcoder tuning.
type Config struct {
	FetchTimeout time.Duration
	// FetchRPS bounds outbound media fetches per second.
	FetchRPS int
	// MaxImages is the per-candidate image cap.
	MaxImages int
	// MaxVideos is the per-candidate video embed cap.
	MaxVideos int
}

// Transcoder fetches remote media and uploads it to the catalog store.
type Transcoder struct {
	store     catalog.Store
	client    *http.Client
	limiter   *rate.Limiter
	logger    logger.Logger
	maxImages int
	maxVideos int
}

// NewTranscoder creates a media transcoder with the given configuration.
func NewTranscoder(store catalog.Store, cfg Config, log logger.Logger) *Transcoder {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.FetchRPS <= 0 {
		cfg.FetchRPS = defaultFetchRPS
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = defaultMaxImages
	}
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = defaultMaxVideos
	}

	return &Transcoder{
		store:     store,
		client:    &http.Client{Timeout: cfg.FetchTimeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.FetchRPS), cfg.FetchRPS),
		logger:    log,
		maxImages: cfg.MaxImages,
		maxVideos: cfg.MaxVideos,
	}
}

// ProcessMedia converts candidate media into catalog media records in input
// order, modulo skipped items. Images past the image cap and videos past the
// video cap are skipped silently; fetch and upload failures skip the single
// item and are logged, never raised.
func (t *Transcoder) ProcessMedia(
	ctx context.Context,
	media []domain.MediaURL,
	author domain.Author,
	urlHash string,
) []domain.MediaRecord {
	handle := author.Handle
	if handle == "" {
		handle = "unknown"
	}

	records := make([]domain.MediaRecord, 0, len(media))
	images, videos := 0, 0

	for i, item := range media {
		switch item.Type {
		case domain.MediaTypeImage, domain.MediaTypeThumbnail:
			if images >= t.maxImages {
				continue
			}
			record, ok := t.uploadImage(ctx, item, handle, urlHash, i)
			if !ok {
				continue
			}
			records = append(records, record)
			images++

		case domain.MediaTypeVideo, domain.MediaTypeGIF:
			if videos >= t.maxVideos {
				continue
			}
			caption := item.AltText
			if caption == "" {
				caption = "Media from " + handle
			}
			records = append(records, domain.MediaRecord{
				Key:     fmt.Sprintf("video-%d", i),
				Type:    domain.MediaTypeVideo,
				URL:     item.URL,
				Caption: caption,
			})
			videos++

		default:
			t.logger.Debug("skipping media item of unknown type",
				logger.String("type", item.Type),
				logger.String("url", item.URL))
		}
	}

	return records
}

// uploadImage fetches one remote image and uploads it as a catalog asset.
func (t *Transcoder) uploadImage(
	ctx context.Context,
	item domain.MediaURL,
	handle, urlHash string,
	index int,
) (domain.MediaRecord, bool) {
	data, contentType, err := t.fetch(ctx, item.URL)
	if err != nil {
		t.logger.Warn("media fetch failed, skipping item",
			logger.String("url", item.URL),
			logger.Error(err))
		return domain.MediaRecord{}, false
	}

	filename := fmt.Sprintf("%s-%s-%d.jpg", handle, urlHash, index)
	assetID, err := t.store.CreateAsset(ctx, data, catalog.AssetOptions{
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		t.logger.Warn("asset upload failed, skipping item",
			logger.String("url", item.URL),
			logger.String("filename", filename),
			logger.Error(err))
		return domain.MediaRecord{}, false
	}

	alt := item.AltText
	if alt == "" {
		alt = "Media from " + handle
	}

	return domain.MediaRecord{
		Key:     fmt.Sprintf("image-%d", index),
		Type:    domain.MediaTypeImage,
		AssetID: assetID,
		Alt:     alt,
	}, true
}

// fetch downloads remote bytes, honoring the outbound rate limit.
func (t *Transcoder) fetch(ctx context.Context, url string) ([]byte, string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read media body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return data, contentType, nil
}
