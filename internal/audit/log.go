package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/store"
)

// MAX_NOTE_LENGTH bounds the characters of a posted note
const MAX_NOTE_LENGTH = 4000

// feedEventTypes are the events shown in the notes feed
var feedEventTypes = []domain.AuditEventType{
	domain.AuditEventNotePosted,
	domain.AuditEventAgentDecision,
	domain.AuditEventSRMoved,
}

// FeedItem is one rendered entry of a comparison's notes feed
type FeedItem struct {
	ID          int64                 `json:"id"`
	EventType   domain.AuditEventType `json:"eventType"`
	Title       string                `json:"title"`
	Body        string                `json:"body"`
	PerformedBy string                `json:"performedBy"`
	PerformedAt time.Time             `json:"performedAt"`
}

// NoteInput is a note to post on a comparison
type NoteInput struct {
	TenantID     string
	ComparisonID string
	Content      string
	Author       string
}

// Log is the append-only history of a comparison. It is never read to derive current state.
//
//go:generate mockgen -source=log.go -destination=../mocks/audit_log.go -package=mocks -mock_names=Log=MockLog
type Log interface {
	// Append writes events to a comparison's history
	Append(ctx context.Context, tenantID, comparisonID string, events ...store.AuditEventInput) error
	// Feed returns the notes feed of a comparison ordered by performedAt then id
	Feed(ctx context.Context, tenantID, comparisonID string) ([]FeedItem, error)
	// PostNote appends a note and returns the updated feed
	PostNote(ctx context.Context, input NoteInput) ([]FeedItem, error)
}

type auditLog struct {
	store store.Store
	clock adapter.Clock
}

// NewLog creates an audit log over the store
func NewLog(st store.Store, clock adapter.Clock) Log {
	return &auditLog{store: st, clock: clock}
}

func (l *auditLog) Append(ctx context.Context, tenantID, comparisonID string, events ...store.AuditEventInput) error {
	if len(events) == 0 {
		return nil
	}
	if err := l.store.AppendAuditEvents(ctx, tenantID, comparisonID, events); err != nil {
		return fmt.Errorf("failed to append audit events: %w", err)
	}
	return nil
}

func (l *auditLog) Feed(ctx context.Context, tenantID, comparisonID string) ([]FeedItem, error) {
	if err := l.ensureComparison(ctx, tenantID, comparisonID); err != nil {
		return nil, err
	}
	return l.feed(ctx, tenantID, comparisonID)
}

func (l *auditLog) PostNote(ctx context.Context, input NoteInput) ([]FeedItem, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: note content is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(content) > MAX_NOTE_LENGTH {
		return nil, fmt.Errorf("%w: note exceeds %d characters", domain.ErrValidation, MAX_NOTE_LENGTH)
	}
	if err := l.ensureComparison(ctx, input.TenantID, input.ComparisonID); err != nil {
		return nil, err
	}

	ev := NotePosted(content, input.Author, l.clock.Now().UTC())
	if err := l.Append(ctx, input.TenantID, input.ComparisonID, ev); err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Note posted",
		append(logger.Comparison(input.TenantID, input.ComparisonID), zap.String("author", ev.PerformedBy))...)

	return l.feed(ctx, input.TenantID, input.ComparisonID)
}

func (l *auditLog) ensureComparison(ctx context.Context, tenantID, comparisonID string) error {
	c, err := l.store.GetComparison(ctx, tenantID, comparisonID)
	if err != nil {
		return fmt.Errorf("failed to get comparison: %w", err)
	}
	if c == nil {
		return fmt.Errorf("comparison %s: %w", comparisonID, domain.ErrNotFound)
	}
	return nil
}

func (l *auditLog) feed(ctx context.Context, tenantID, comparisonID string) ([]FeedItem, error) {
	events, err := l.store.ListAuditEvents(ctx, store.AuditEventFilter{
		TenantID:     tenantID,
		ComparisonID: comparisonID,
		EventTypes:   feedEventTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	items := make([]FeedItem, 0, len(events))
	for _, ev := range events {
		item, err := Render(ev)
		if err != nil {
			// A malformed payload hides one entry, not the feed
			logger.WarnCtx(ctx, "Skipping unreadable audit event",
				append(logger.Comparison(tenantID, comparisonID), zap.Int64("event_id", ev.ID), zap.Error(err))...)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Render turns an audit event into a feed item according to its type
func Render(ev domain.AuditEvent) (FeedItem, error) {
	item := FeedItem{
		ID:          ev.ID,
		EventType:   ev.EventType,
		PerformedBy: ev.PerformedBy,
		PerformedAt: ev.PerformedAt,
	}

	switch ev.EventType {
	case domain.AuditEventNotePosted:
		var data NoteData
		if err := json.Unmarshal(ev.EventData, &data); err != nil {
			return item, fmt.Errorf("invalid note payload: %w", err)
		}
		item.Title = "Note"
		item.Body = data.Content

	case domain.AuditEventAgentDecision:
		var data DecisionData
		if err := json.Unmarshal(ev.EventData, &data); err != nil {
			return item, fmt.Errorf("invalid decision payload: %w", err)
		}
		item.Title = "Agent decision: " + humanize(string(data.Decision))
		item.Body = fmt.Sprintf("Status changed from %s to %s", humanize(string(data.FromStatus)), humanize(string(data.ToStatus)))
		if data.Note != "" {
			item.Body += ". " + data.Note
		}

	case domain.AuditEventSRMoved:
		var data SRMovedData
		if err := json.Unmarshal(ev.EventData, &data); err != nil {
			return item, fmt.Errorf("invalid service request payload: %w", err)
		}
		item.Title = "Service request created"
		item.Body = fmt.Sprintf("Service request %s sent to AgencyZoom", data.ServiceRequestID)
		if data.Queue != "" {
			item.Body += " (" + data.Queue + ")"
		}

	default:
		return item, fmt.Errorf("event type %s is not part of the notes feed", ev.EventType)
	}

	return item, nil
}

// humanize turns an enum value like "waiting_agent_review" into "waiting agent review"
func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
