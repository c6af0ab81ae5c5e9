package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/model"
)

type EventType string

const (
	EventLoginFailure    EventType = "login_failure"
	EventLogout          EventType = "logout"
	EventSessionRejected EventType = "session_rejected"
	EventRateLimitExceed EventType = "rate_limit_exceeded"
	EventPaymentRecorded EventType = "payment_recorded"
)

type Event struct {
	Type      EventType
	AccountID string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

// Log writes a security/audit line. It never touches the database.
func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "portal").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.AccountID != "" {
		logger = logger.With().Str("account_id", event.AccountID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("portal audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case float64:
		return e.Float64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = ClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RequestMeta is the caller metadata stored with sessions, signatures and
// activity rows.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func MetaFromRequest(r *http.Request) RequestMeta {
	return RequestMeta{IP: ClientIP(r), UserAgent: r.UserAgent()}
}

func (m RequestMeta) IPPtr() *string {
	return optional(m.IP)
}

func (m RequestMeta) UserAgentPtr() *string {
	return optional(m.UserAgent)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ActivityStore is the append-only activity log.
type ActivityStore interface {
	Create(ctx context.Context, params model.CreateActivityParams) (*model.ActivityLogEntry, error)
}

// Recorder appends ActivityLogEntry rows and mirrors each one to the audit
// log. Store failures are logged and swallowed.
type Recorder struct {
	store ActivityStore
}

func NewRecorder(store ActivityStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, accountID, action, resourceType, resourceID string, meta RequestMeta) {
	_, err := r.store.Create(ctx, model.CreateActivityParams{
		AccountID:    accountID,
		Action:       action,
		ResourceType: optional(resourceType),
		ResourceID:   optional(resourceID),
		IPAddress:    meta.IPPtr(),
		UserAgent:    meta.UserAgentPtr(),
	})
	if err != nil {
		log.Error().Err(err).
			Str("accountId", accountID).
			Str("action", action).
			Msg("failed to write activity log entry")
	}

	details := map[string]interface{}{"action": action}
	if resourceType != "" {
		details["resource_type"] = resourceType
	}
	if resourceID != "" {
		details["resource_id"] = resourceID
	}
	Log(ctx, Event{
		Type:      EventType(action),
		AccountID: accountID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Details:   details,
	})
}
