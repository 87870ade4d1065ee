package v1

import (
	"time"

	httperr "github.com/tally-lab/tally/internal/core/errors"
)

const (
	// DefaultPath is stored when an ingest request omits path.
	DefaultPath = "/"

	// DefaultUserID is stored when an ingest request omits user_id.
	DefaultUserID = "anonymous"

	// DateLayout is the wire format of a rollup day.
	DateLayout = "2006-01-02"

	msgMissingRequired = "Missing required fields: site_id and event_type are required"
	msgBadTimestamp    = "timestamp must be an ISO-8601 date-time"
)

// timestampLayouts are the ISO-8601 shapes accepted for IngestRequest.Timestamp.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	DateLayout,
}

// IngestRequest is the body accepted by the ingestion endpoint.
type IngestRequest struct {
	SiteID    string `json:"site_id"`
	EventType string `json:"event_type"`
	Path      string `json:"path,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Validate checks the required envelope fields and the timestamp format.
// Required fields only have to be present and non-empty.
func (r *IngestRequest) Validate() error {
	if r.SiteID == "" {
		return httperr.NewValidationError("site_id", msgMissingRequired)
	}
	if r.EventType == "" {
		return httperr.NewValidationError("event_type", msgMissingRequired)
	}
	if r.Timestamp != "" {
		if _, err := ParseTimestamp(r.Timestamp); err != nil {
			return httperr.NewValidationError("timestamp", msgBadTimestamp)
		}
	}
	return nil
}

// ToQueueEntry applies the ingest defaults and builds the queue row.
// now is the enqueue instant: it becomes CreatedAt and the fallback Timestamp.
func (r *IngestRequest) ToQueueEntry(id string, now time.Time) (*QueueEntry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	entry := &QueueEntry{
		ID:        id,
		SiteID:    r.SiteID,
		EventType: r.EventType,
		Path:      r.Path,
		UserID:    r.UserID,
		Timestamp: now,
		CreatedAt: now,
	}
	if entry.Path == "" {
		entry.Path = DefaultPath
	}
	if entry.UserID == "" {
		entry.UserID = DefaultUserID
	}
	if r.Timestamp != "" {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, httperr.NewValidationError("timestamp", msgBadTimestamp)
		}
		entry.Timestamp = ts
	}
	return entry, nil
}

// ParseTimestamp parses an ISO-8601 instant and normalizes it to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// QueueEntry is a raw event waiting to be folded.
type QueueEntry struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	EventType string    `json:"event_type"`
	Path      string    `json:"path"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}

// ToEvent derives the canonical record. The canonical id reuses the queue id,
// which makes re-inserting an already-landed entry a no-op.
func (q *QueueEntry) ToEvent() *Event {
	return &Event{
		ID:        q.ID,
		SiteID:    q.SiteID,
		EventType: q.EventType,
		Path:      q.Path,
		UserID:    q.UserID,
		Timestamp: q.Timestamp,
		CreatedAt: q.CreatedAt,
	}
}

// Event is the immutable canonical record of a processed occurrence.
type Event struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	EventType string    `json:"event_type"`
	Path      string    `json:"path"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}
