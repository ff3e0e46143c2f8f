package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBlobs struct {
	objects map[string][]byte
	puts    int
}

func (m *memoryBlobs) Put(_ context.Context, name, _ string, data []byte) error {
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.puts++
	m.objects[name] = data
	return nil
}

func (m *memoryBlobs) Get(_ context.Context, name string) ([]byte, error) {
	return m.objects[name], nil
}

func TestDistributionInfo(t *testing.T) {
	h := newHarness(t)
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	info := h.dist.Info(poll)
	assert.Equal(t, "http://polls.test/polls/"+poll.Slug+"/", info.PublicURL)
	assert.Equal(t, "http://polls.test/api/v1/distribution/polls/"+poll.Slug+"/qr", info.QRCodeURL)
	assert.Contains(t, info.EmbedCode, `<iframe src="http://polls.test/polls/`+poll.Slug+`/"`)
	assert.Contains(t, info.EmbedCode, `height="600"`)
}

func TestPublicPoll_InactiveIsUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	_, err := h.dist.PublicPoll(ctx, poll.Slug)
	require.NoError(t, err)

	require.NoError(t, h.db.Model(&models.Poll{}).Where("id = ?", poll.ID).Update("is_active", false).Error)
	_, err = h.dist.PublicPoll(ctx, poll.Slug)
	assert.ErrorIs(t, err, ErrPollUnavailable)
}

func TestQRCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)
	blobs := &memoryBlobs{}
	h.dist.WithBlobStore(blobs)

	png, err := h.dist.QRCode(ctx, poll, QRFormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	again, err := h.dist.QRCode(ctx, poll, QRFormatPNG)
	require.NoError(t, err)
	assert.Equal(t, png, again)
	assert.Equal(t, 1, blobs.puts)
	assert.Contains(t, blobs.objects, "qr/"+poll.Slug+".png")

	svg, err := h.dist.QRCode(ctx, poll, QRFormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = ParseQRFormat("gif")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	f, err := ParseQRFormat("")
	require.NoError(t, err)
	assert.Equal(t, QRFormatPNG, f)
}

func TestDistributionEventsAndAnalytics(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	other := testutil.CreateUser(t, h.db, "other@example.com")
	poll := h.favouriteColour(t, owner)

	h.dist.LogEvent(ctx, models.DistributionEvent{PollID: poll.ID, EventType: models.EventLinkOpen, IPAddress: "10.0.0.1"})
	h.dist.LogEvent(ctx, models.DistributionEvent{PollID: poll.ID, EventType: models.EventLinkOpen})
	h.dist.LogEvent(ctx, models.DistributionEvent{PollID: poll.ID, EventType: models.EventSocialShare, Metadata: map[string]any{"platform": "twitter"}})

	res, err := h.dist.Analytics(ctx, owner.ID, poll.Slug, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Summary.TotalLinkOpens)
	assert.EqualValues(t, 1, res.Summary.TotalSocialShares)
	assert.EqualValues(t, 0, res.Summary.TotalQRScans)
	assert.Len(t, res.RecentEvents, 3)

	_, err = h.dist.Analytics(ctx, other.ID, poll.Slug, 10)
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestHandleLogEvent_MissingPollIgnored(t *testing.T) {
	h := newHarness(t)
	raw, _ := json.Marshal(models.DistributionEvent{PollID: 12345, EventType: models.EventQRScan})

	report, err := h.dist.HandleLogEvent(context.Background(), raw)
	require.NoError(t, err)
	assert.Contains(t, report, "ignored")

	var n int64
	require.NoError(t, h.db.Model(&models.DistributionAnalytics{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecord_TruncatesReferrerByCharacters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner@example.com")
	poll := h.favouriteColour(t, owner)

	referrer := "https://example.com/" + strings.Repeat("é", 600)
	ok, err := h.dist.Record(ctx, models.DistributionEvent{PollID: poll.ID, EventType: models.EventLinkOpen, Referrer: referrer})
	require.NoError(t, err)
	require.True(t, ok)

	var stored models.DistributionAnalytics
	require.NoError(t, h.db.First(&stored).Error)
	assert.True(t, utf8.ValidString(stored.Referrer))
	assert.Equal(t, maxReferrerLength, utf8.RuneCountInString(stored.Referrer))
	assert.Equal(t, "short", truncateRunes("short", maxReferrerLength))
}
