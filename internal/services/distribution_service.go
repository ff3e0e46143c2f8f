package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"time"
	"unicode/utf8"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/tasks"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrCacheTTL        = 24 * time.Hour
	qrSize            = 256
	RecentEventsLimit = 100
)

// BlobStore persists generated binary assets.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

type QRFormat string

const (
	QRFormatPNG QRFormat = "png"
	QRFormatSVG QRFormat = "svg"
)

func (f QRFormat) ContentType() string {
	if f == QRFormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseQRFormat accepts "png" (also the default for "") and "svg".
func ParseQRFormat(s string) (QRFormat, error) {
	switch s {
	case "", "png":
		return QRFormatPNG, nil
	case "svg":
		return QRFormatSVG, nil
	}
	return "", ErrInvalidFormat
}

type DistributionService struct {
	polls   *PollService
	repo    *postgres.DistributionRepository
	cache   cache.Cache
	blobs   BlobStore
	queue   tasks.Queue
	baseURL string
	now     func() time.Time
	logger  *zap.Logger
}

func NewDistributionService(polls *PollService, repo *postgres.DistributionRepository, c cache.Cache, queue tasks.Queue, baseURL string, logger *zap.Logger) *DistributionService {
	return &DistributionService{
		polls:   polls,
		repo:    repo,
		cache:   c,
		queue:   queue,
		baseURL: baseURL,
		now:     time.Now,
		logger:  logger,
	}
}

// WithBlobStore enables persisting QR codes to object storage.
func (s *DistributionService) WithBlobStore(b BlobStore) {
	s.blobs = b
}

func (s *DistributionService) PublicURL(poll *models.Poll) string {
	return fmt.Sprintf("%s/polls/%s/", s.baseURL, poll.Slug)
}

func (s *DistributionService) EmbedCode(poll *models.Poll) string {
	return fmt.Sprintf(`<iframe src="%s" width="100%%" height="600" frameborder="0" allowfullscreen></iframe>`,
		html.EscapeString(s.PublicURL(poll)))
}

func (s *DistributionService) Info(poll *models.Poll) models.DistributionInfo {
	return models.DistributionInfo{
		PublicURL: s.PublicURL(poll),
		QRCodeURL: fmt.Sprintf("%s/api/v1/distribution/polls/%s/qr", s.baseURL, poll.Slug),
		EmbedCode: s.EmbedCode(poll),
	}
}

// PublicPoll returns an active poll by slug; inactive polls are unavailable.
func (s *DistributionService) PublicPoll(ctx context.Context, slug string) (*models.Poll, error) {
	poll, err := s.polls.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive {
		return nil, ErrPollUnavailable
	}
	return poll, nil
}

// QRCode renders the poll's public URL as a QR code. Results are cached and,
// when a blob store is configured, persisted so they survive cache expiry.
func (s *DistributionService) QRCode(ctx context.Context, poll *models.Poll, format QRFormat) ([]byte, error) {
	key := fmt.Sprintf("poll_qr_%s_%s", poll.Slug, format)
	var data []byte
	if err := s.cache.Get(ctx, key, &data); err == nil && len(data) > 0 {
		return data, nil
	}

	object := fmt.Sprintf("qr/%s.%s", poll.Slug, format)
	if s.blobs != nil {
		if stored, err := s.blobs.Get(ctx, object); err == nil && len(stored) > 0 {
			s.storeQR(ctx, key, stored)
			return stored, nil
		}
	}

	data, err := renderQR(s.PublicURL(poll), format)
	if err != nil {
		return nil, err
	}

	if s.blobs != nil {
		if err := s.blobs.Put(ctx, object, format.ContentType(), data); err != nil {
			s.logger.Warn("failed to persist QR code", zap.String("object", object), zap.Error(err))
		}
	}
	s.storeQR(ctx, key, data)
	return data, nil
}

func (s *DistributionService) storeQR(ctx context.Context, key string, data []byte) {
	if err := s.cache.Set(ctx, key, data, qrCacheTTL); err != nil {
		s.logger.Warn("failed to cache QR code", zap.String("key", key), zap.Error(err))
	}
}

func renderQR(content string, format QRFormat) ([]byte, error) {
	if format == QRFormatPNG {
		png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
		if err != nil {
			return nil, fmt.Errorf("encode QR code: %w", err)
		}
		return png, nil
	}

	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode QR code: %w", err)
	}
	return svgFromBitmap(q.Bitmap()), nil
}

// svgFromBitmap draws one unit square per dark module.
func svgFromBitmap(bitmap [][]bool) []byte {
	n := len(bitmap)
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`, n, n, qrSize, qrSize)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, n, n)
	b.WriteString(`<path fill="#000000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, "M%d %dh1v1h-1z", x, y)
			}
		}
	}
	b.WriteString(`"/></svg>`)
	return b.Bytes()
}

const maxReferrerLength = 500

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// LogEvent enqueues a distribution event for asynchronous recording.
func (s *DistributionService) LogEvent(ctx context.Context, ev models.DistributionEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}
	if err := s.queue.Enqueue(ctx, tasks.LogDistributionEvent, ev); err != nil {
		s.logger.Warn("failed to enqueue distribution event",
			zap.Uint("poll_id", ev.PollID), zap.String("event", string(ev.EventType)), zap.Error(err))
	}
}

// Record stores a distribution event. Events for missing polls are dropped.
func (s *DistributionService) Record(ctx context.Context, ev models.DistributionEvent) (bool, error) {
	if !ev.EventType.Valid() {
		return false, ErrInvalidEventType
	}
	if _, err := s.polls.GetByID(ctx, ev.PollID); err != nil {
		if errors.Is(err, ErrPollNotFound) {
			return false, nil
		}
		return false, err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}
	ev.Referrer = truncateRunes(ev.Referrer, maxReferrerLength)
	err := s.repo.Create(ctx, &models.DistributionAnalytics{
		PollID:    ev.PollID,
		EventType: ev.EventType,
		Timestamp: ev.Timestamp,
		IPAddress: ev.IPAddress,
		UserAgent: ev.UserAgent,
		Referrer:  ev.Referrer,
		Metadata:  models.JSONMap(ev.Metadata),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// HandleLogEvent is the log_distribution_event task handler.
func (s *DistributionService) HandleLogEvent(ctx context.Context, raw json.RawMessage) (string, error) {
	var ev models.DistributionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return "", tasks.Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	stored, err := s.Record(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrInvalidEventType) {
			return "", tasks.Permanent(err)
		}
		return "", err
	}
	if !stored {
		return fmt.Sprintf("Poll %d not found, event ignored", ev.PollID), nil
	}
	return fmt.Sprintf("Logged %s for poll %d", ev.EventType, ev.PollID), nil
}

// Analytics summarises distribution events for a poll owned by userID.
// Polls owned by someone else are reported as not found.
func (s *DistributionService) Analytics(ctx context.Context, userID uint, slug string, limit int) (*models.DistributionAnalyticsResponse, error) {
	poll, err := s.polls.GetOwned(ctx, userID, slug)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if limit <= 0 || limit > RecentEventsLimit {
		limit = RecentEventsLimit
	}

	counts, err := s.repo.CountsByType(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.Recent(ctx, poll.ID, limit)
	if err != nil {
		return nil, err
	}

	resp := &models.DistributionAnalyticsResponse{
		PollSlug: poll.Slug,
		Summary: models.DistributionSummary{
			TotalLinkOpens:    counts[models.EventLinkOpen],
			TotalQRScans:      counts[models.EventQRScan],
			TotalEmbedLoads:   counts[models.EventEmbedLoad],
			TotalSocialShares: counts[models.EventSocialShare],
		},
		RecentEvents: make([]models.DistributionEventResponse, 0, len(events)),
	}
	for i := range events {
		resp.RecentEvents = append(resp.RecentEvents, events[i].ToResponse())
	}
	return resp, nil
}
