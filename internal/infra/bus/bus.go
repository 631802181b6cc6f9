package bus

import (
	"sync"
	"time"

	"resume-screener/internal/domain/model"
	"resume-screener/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
)

// subscriber buffer; publishes to a full buffer are dropped, the client
// reconciles through the query service.
const subBuffer = 64

// how long the terminal marker of a closed job sticks around so that
// reconnecting clients get an immediately-ended stream instead of a
// silent one. After that the marker is dropped to bound memory.
const closedRetention = time.Minute

type subscriber struct {
	ch chan model.ProgressEvent
}

// Bus is the in-process progress event fan-out, keyed by job id. One producer
// (the pipeline) and N consumers per job. Publish never blocks: with no
// subscriber, or a slow one, events are dropped for that moment.
type Bus struct {
	mu        sync.Mutex
	subs      map[string]map[int]*subscriber
	nextID    int
	closed    map[string]bool
	retention time.Duration
}

func New() *Bus {
	return &Bus{
		subs:      make(map[string]map[int]*subscriber),
		closed:    make(map[string]bool),
		retention: closedRetention,
	}
}

// Subscribe registers a consumer for one job's events. Events published
// before the subscription are not replayed. The returned cancel func is
// idempotent and must be called when the consumer disconnects.
func (b *Bus) Subscribe(jobID string) (<-chan model.ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{ch: make(chan model.ProgressEvent, subBuffer)}
	if b.closed[jobID] {
		// Terminal job: hand back an already-closed stream.
		close(sub.ch)
		return sub.ch, func() {}
	}

	b.nextID++
	id := b.nextID
	if b.subs[jobID] == nil {
		b.subs[jobID] = make(map[int]*subscriber)
	}
	b.subs[jobID][id] = sub
	metrics.AddSubscribers(1)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[jobID][id]; ok {
				delete(b.subs[jobID], id)
				close(s.ch)
				metrics.AddSubscribers(-1)
			}
		})
	}
	return sub.ch, cancel
}

// Publish delivers the event to every connected subscriber of the job.
// The mutex serializes sends, so each subscriber observes events in
// emission order.
func (b *Bus) Publish(jobID string, typ model.EventType, message string) {
	ev := model.ProgressEvent{
		ID:        ulid.Make().String(),
		JobID:     jobID,
		Type:      typ,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	metrics.IncProgressEvent(string(typ))
	for _, sub := range b.subs[jobID] {
		select {
		case sub.ch <- ev:
		default: // slow consumer, drop
		}
	}
}

// Close tears down all subscriptions for the job and rejects future ones.
// Called by the pipeline after the terminal event grace period, and by the
// job delete path immediately. The terminal marker is reclaimed after the
// retention window so the marker map does not grow with job count.
func (b *Bus) Close(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs[jobID] {
		delete(b.subs[jobID], id)
		close(sub.ch)
		metrics.AddSubscribers(-1)
	}
	delete(b.subs, jobID)
	b.closed[jobID] = true
	time.AfterFunc(b.retention, func() { b.Forget(jobID) })
}

// Forget drops the terminal marker for a job id, allowing its memory to be
// reclaimed once no client can reasonably reconnect.
func (b *Bus) Forget(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.closed, jobID)
}
