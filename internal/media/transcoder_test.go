package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heytulsiprasad/clawdex/internal/domain"
	"github.com/heytulsiprasad/clawdex/internal/logger"
	"github.com/heytulsiprasad/clawdex/internal/testhelpers"
)

func newTestTranscoder(store *testhelpers.MockStore) *Transcoder {
	return NewTranscoder(store, Config{FetchRPS: 1000}, logger.NewNop())
}

func imageServer(t *testing.T, contentType string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProcessMedia_CapsAndOrder(t *testing.T) {
	srv := imageServer(t, "image/png")
	store := testhelpers.NewMockStore()
	tr := newTestTranscoder(store)

	var items []domain.MediaURL
	for i := 0; i < 6; i++ {
		items = append(items, domain.MediaURL{URL: fmt.Sprintf("%s/img-%d", srv.URL, i), Type: domain.MediaTypeImage})
	}
	for i := 0; i < 3; i++ {
		items = append(items, domain.MediaURL{URL: fmt.Sprintf("https://youtu.be/v%d", i), Type: domain.MediaTypeVideo})
	}

	records := tr.ProcessMedia(context.Background(), items, domain.Author{Handle: "someone"}, "abc123")

	var imageKeys, videoKeys []string
	for _, r := range records {
		switch r.Type {
		case domain.MediaTypeImage:
			imageKeys = append(imageKeys, r.Key)
		case domain.MediaTypeVideo:
			videoKeys = append(videoKeys, r.Key)
		}
	}

	assert.Len(t, imageKeys, 4, "image cap is 4")
	assert.Len(t, videoKeys, 2, "video cap is 2")
	assert.Equal(t, []string{"image-0", "image-1", "image-2", "image-3"}, imageKeys, "relative order preserved")
	assert.Equal(t, []string{"video-6", "video-7"}, videoKeys, "keys use original input index")
	assert.Len(t, store.Assets(), 4, "one asset per accepted image")
}

func TestProcessMedia_ImageUploadDetails(t *testing.T) {
	srv := imageServer(t, "image/png")
	store := testhelpers.NewMockStore()
	tr := newTestTranscoder(store)

	records := tr.ProcessMedia(context.Background(),
		[]domain.MediaURL{{URL: srv.URL + "/pic", Type: domain.MediaTypeThumbnail, AltText: "a screenshot"}},
		domain.Author{Handle: "builder"}, "deadbeef",
	)

	require.Len(t, records, 1)
	assert.Equal(t, "image-0", records[0].Key)
	assert.Equal(t, domain.MediaTypeImage, records[0].Type)
	assert.Equal(t, "a screenshot", records[0].Alt)
	assert.NotEmpty(t, records[0].AssetID)

	assets := store.Assets()
	require.Len(t, assets, 1)
	assert.Equal(t, "builder-deadbeef-0.jpg", assets[0].Filename)
	assert.Equal(t, "image/png", assets[0].ContentType)
}

func TestProcessMedia_DefaultsWhenHeaderAndAltMissing(t *testing.T) {
	srv := imageServer(t, "")
	store := testhelpers.NewMockStore()
	tr := newTestTranscoder(store)

	records := tr.ProcessMedia(context.Background(),
		[]domain.MediaURL{{URL: srv.URL + "/pic", Type: domain.MediaTypeImage}},
		domain.Author{}, "cafe0123",
	)

	require.Len(t, records, 1)
	assert.Equal(t, "Media from unknown", records[0].Alt)

	assets := store.Assets()
	require.Len(t, assets, 1)
	assert.Equal(t, "unknown-cafe0123-0.jpg", assets[0].Filename)
	// httptest sniffs a content type for non-empty bodies, so the jpeg
	// default only applies when the header is truly absent; either way the
	// upload must carry some content type.
	assert.NotEmpty(t, assets[0].ContentType)
}

func TestProcessMedia_FetchFailureSkipsItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte{0x01})
	}))
	t.Cleanup(srv.Close)

	store := testhelpers.NewMockStore()
	tr := newTestTranscoder(store)

	records := tr.ProcessMedia(context.Background(),
		[]domain.MediaURL{
			{URL: srv.URL + "/bad", Type: domain.MediaTypeImage},
			{URL: srv.URL + "/good", Type: domain.MediaTypeImage},
		},
		domain.Author{Handle: "someone"}, "abc",
	)

	require.Len(t, records, 1, "failed fetch drops only that item")
	assert.Equal(t, "image-1", records[0].Key)
}

func TestProcessMedia_VideoEmbedsAreNotFetched(t *testing.T) {
	store := testhelpers.NewMockStore()
	tr := newTestTranscoder(store)

	records := tr.ProcessMedia(context.Background(),
		[]domain.MediaURL{{URL: "https://youtu.be/abc", Type: domain.MediaTypeGIF}},
		domain.Author{Handle: "clipper"}, "ffff",
	)

	require.Len(t, records, 1)
	assert.Equal(t, domain.MediaTypeVideo, records[0].Type)
	assert.Equal(t, "https://youtu.be/abc", records[0].URL)
	assert.Equal(t, "Media from clipper", records[0].Caption)
	assert.Empty(t, store.Assets(), "videos never upload assets")
}
