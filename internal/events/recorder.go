package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/deal-service/internal/domain"
)

// Recorder builds enriched domain events at mutation time and keeps the
// append-only, query-only event history.
type Recorder struct {
	mu         sync.RWMutex
	history    []Event
	dispatcher *WebhookDispatcher
	logger     *zap.Logger

	// Now is the clock used for event timestamps; overridable in tests.
	Now func() time.Time
}

// NewRecorder constructs a recorder. The dispatcher may be nil, in which case
// events are recorded but never forwarded.
func NewRecorder(dispatcher *WebhookDispatcher, logger *zap.Logger) *Recorder {
	return &Recorder{
		dispatcher: dispatcher,
		logger:     logger,
		Now:        time.Now,
	}
}

// Record snapshots the deal's context, appends the event to the history and
// hands it to the dispatcher asynchronously. The returned event is the
// recorded value.
func (r *Recorder) Record(eventType EventType, deal domain.Deal, payload map[string]any) Event {
	event := Event{
		Type:       eventType,
		DealID:     deal.ID,
		DealNumber: deal.DealNumber,
		Timestamp:  r.Now().UTC(),
		Payload:    payload,
		Context:    BuildContext(deal),
	}

	r.mu.Lock()
	r.history = append(r.history, event)
	r.mu.Unlock()

	r.logger.Debug("domain event recorded",
		zap.String("event_type", string(eventType)),
		zap.String("deal_id", deal.ID))

	if r.dispatcher != nil {
		r.dispatcher.DispatchAsync(event)
	}
	return event
}

// History returns a copy of the recorded events, oldest first.
func (r *Recorder) History() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.history))
	copy(out, r.history)
	return out
}
