package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type DistributionEventType string

const (
	EventLinkOpen    DistributionEventType = "LINK_OPEN"
	EventQRScan      DistributionEventType = "QR_SCAN"
	EventEmbedLoad   DistributionEventType = "EMBED_LOAD"
	EventSocialShare DistributionEventType = "SOCIAL_SHARE"
)

func (t DistributionEventType) Valid() bool {
	switch t {
	case EventLinkOpen, EventQRScan, EventEmbedLoad, EventSocialShare:
		return true
	}
	return false
}

// JSONMap stores a JSON object in a text column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	out := JSONMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

// DistributionAnalytics is one append-only distribution event.
type DistributionAnalytics struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	PollID    uint                  `gorm:"index;not null" json:"poll_id"`
	EventType DistributionEventType `gorm:"size:20;index;not null" json:"event_type"`
	Timestamp time.Time             `gorm:"index;not null" json:"timestamp"`
	IPAddress string                `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string                `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  string                `gorm:"size:500" json:"referrer,omitempty"`
	Metadata  JSONMap               `gorm:"type:text" json:"metadata"`
}

func (DistributionAnalytics) TableName() string {
	return "distribution_analytics"
}

/** -------------------- DTOs -------------------- */
type DistributionEvent struct {
	PollID    uint                  `json:"poll_id"`
	EventType DistributionEventType `json:"event_type"`
	IPAddress string                `json:"ip_address,omitempty"`
	UserAgent string                `json:"user_agent,omitempty"`
	Referrer  string                `json:"referrer,omitempty"`
	Metadata  map[string]any        `json:"metadata,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

type DistributionInfo struct {
	PublicURL string `json:"public_url"`
	QRCodeURL string `json:"qr_code_url"`
	EmbedCode string `json:"embed_code"`
}

// PublicPollResponse is the anonymous view of a shared poll.
type PublicPollResponse struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
}

type DistributionSummary struct {
	TotalLinkOpens    int64 `json:"total_link_opens"`
	TotalQRScans      int64 `json:"total_qr_scans"`
	TotalEmbedLoads   int64 `json:"total_embed_loads"`
	TotalSocialShares int64 `json:"total_social_shares"`
}

type DistributionEventResponse struct {
	EventType DistributionEventType `json:"event_type"`
	Timestamp time.Time             `json:"timestamp"`
	IPAddress string                `json:"ip_address,omitempty"`
	UserAgent string                `json:"user_agent,omitempty"`
	Referrer  string                `json:"referrer,omitempty"`
	Metadata  map[string]any        `json:"metadata"`
}

type DistributionAnalyticsResponse struct {
	PollSlug     string                      `json:"poll_slug"`
	Summary      DistributionSummary         `json:"summary"`
	RecentEvents []DistributionEventResponse `json:"recent_events"`
}

type ShareRequest struct {
	Platform string `json:"platform" binding:"max=50"`
}

func (d *DistributionAnalytics) ToResponse() DistributionEventResponse {
	meta := map[string]any(d.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	return DistributionEventResponse{
		EventType: d.EventType,
		Timestamp: d.Timestamp,
		IPAddress: d.IPAddress,
		UserAgent: d.UserAgent,
		Referrer:  d.Referrer,
		Metadata:  meta,
	}
}
