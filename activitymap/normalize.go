package activitymap

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	authstate "github.com/goliatone/go-auth-state"
)

const (
	// MetadataKeyOperation stores the session operation that produced the event.
	MetadataKeyOperation = "operation"
	// MetadataKeyOutcome is either OutcomeSuccess or OutcomeFailure.
	MetadataKeyOutcome = "outcome"
	// MetadataKeyMessage stores the service message or the stored error.
	MetadataKeyMessage = "message"
	// MetadataKeyEventID stores the id of the source event.
	MetadataKeyEventID = "event_id"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

const (
	defaultChannel    = "auth"
	defaultObjectType = "session"
	defaultActorID    = "anonymous"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel          string
	objectType       string
	actorFallback    string
	objectIDResolver func(authstate.ActivityEvent) string
	now              func() time.Time
}

// Normalize converts a session activity event into a generic record.
// Logins that fail carry no user id, so their actor falls back to
// "anonymous" unless WithActorFallback says otherwise.
func Normalize(event authstate.ActivityEvent, opts ...Option) Normalized {
	options := defaultNormalizeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	actorID := firstNonEmpty(
		strings.TrimSpace(event.UserID),
		strings.TrimSpace(options.actorFallback),
	)

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = options.now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: strings.TrimSpace(options.objectType),
		ObjectID:   resolveObjectID(event, options.objectIDResolver),
		Channel:    strings.TrimSpace(options.channel),
		Metadata:   normalizeMetadata(event),
		OccurredAt: occurredAt,
	}
}

// WithDefaultChannel sets the default channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		opts.channel = strings.TrimSpace(channel)
	}
}

// WithDefaultObjectType sets the default object type for normalized records.
func WithDefaultObjectType(objectType string) Option {
	return func(opts *normalizeOptions) {
		opts.objectType = strings.TrimSpace(objectType)
	}
}

// WithObjectIDResolver overrides object-id extraction from ActivityEvent.
func WithObjectIDResolver(resolver func(authstate.ActivityEvent) string) Option {
	return func(opts *normalizeOptions) {
		opts.objectIDResolver = resolver
	}
}

// WithActorFallback sets the actor id used when the event has no user id.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		opts.actorFallback = strings.TrimSpace(actorID)
	}
}

// WithClock sets the clock used for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(opts *normalizeOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

func defaultNormalizeOptions() normalizeOptions {
	return normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
		now:           time.Now,
	}
}

func resolveObjectID(event authstate.ActivityEvent, resolver func(authstate.ActivityEvent) string) string {
	if resolver != nil {
		return strings.TrimSpace(resolver(event))
	}
	return strings.TrimSpace(event.UserID)
}

// Outcome reports whether event records a success or a failure.
func Outcome(event authstate.ActivityEvent) string {
	if strings.HasSuffix(string(event.EventType), "failure") {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func normalizeMetadata(event authstate.ActivityEvent) map[string]any {
	metadata := make(map[string]any, len(event.Metadata)+4)
	for key, value := range event.Metadata {
		metadata[key] = value
	}

	setDefault := func(key string, value any) {
		if _, exists := metadata[key]; !exists {
			metadata[key] = value
		}
	}

	if op := strings.TrimSpace(event.Operation); op != "" {
		setDefault(MetadataKeyOperation, op)
	}
	if msg := strings.TrimSpace(event.Message); msg != "" {
		setDefault(MetadataKeyMessage, msg)
	}
	if event.ID != "" {
		setDefault(MetadataKeyEventID, event.ID)
	}
	metadata[MetadataKeyOutcome] = Outcome(event)

	return metadata
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// JSONSink writes every event as one normalized JSON line.
type JSONSink struct {
	mu   sync.Mutex
	enc  *json.Encoder
	opts []Option
}

var _ authstate.ActivitySink = &JSONSink{}

// NewJSONSink returns a sink writing to w.
func NewJSONSink(w io.Writer, opts ...Option) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w), opts: opts}
}

// Record implements authstate.ActivitySink.
func (s *JSONSink) Record(_ context.Context, event authstate.ActivityEvent) error {
	record := Normalize(event, s.opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(record)
}
