package replication

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/ports/bus"
)

// -------------------------
// Fake outbox / bus
// -------------------------

type fakeOutbox struct {
	entries []OutboxEntry
	sent    []string
}

func (o *fakeOutbox) Append(ctx context.Context, e OutboxEntry) error {
	o.entries = append(o.entries, e)
	return nil
}

func (o *fakeOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEntry, error) {
	if limit > len(o.entries) {
		limit = len(o.entries)
	}
	out := make([]OutboxEntry, limit)
	copy(out, o.entries[:limit])
	return out, nil
}

func (o *fakeOutbox) MarkSent(ctx context.Context, id string) error {
	for i, e := range o.entries {
		if e.ID == id {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
			break
		}
	}
	o.sent = append(o.sent, id)
	return nil
}

type fakePubBus struct {
	published [][]byte
	failOn    int // publicación 1-based que falla; 0 = nunca
	notify    chan struct{}
}

func (b *fakePubBus) Publish(ctx context.Context, body []byte) error {
	if b.failOn > 0 && len(b.published)+1 == b.failOn {
		return bus.ErrUnavailable
	}
	b.published = append(b.published, body)
	if b.notify != nil {
		select {
		case b.notify <- struct{}{}:
		default:
		}
	}
	return nil
}

func (b *fakePubBus) Consume(ctx context.Context) (<-chan bus.Delivery, error) {
	return nil, bus.ErrUnavailable
}

func (b *fakePubBus) Close() error { return nil }

func stageEntries(t *testing.T, o *fakeOutbox, origin string, ids ...int64) {
	t.Helper()
	pub := NewOutboxPublisher(o, origin)
	for _, id := range ids {
		if err := pub.RecordDeleted(context.Background(), id); err != nil {
			t.Fatalf("stage error: %v", err)
		}
	}
}

// -------------------------
// Tests
// -------------------------

func TestRelay_Drain_PublishesInAppendOrder(t *testing.T) {
	ob := &fakeOutbox{}
	stageEntries(t, ob, "hospital_a", 1, 2, 3)

	b := &fakePubBus{}
	r := NewRelay(ob, b, nil)

	if err := r.drain(context.Background()); err != nil {
		t.Fatalf("drain error: %v", err)
	}
	if len(b.published) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(b.published))
	}
	for i, want := range []int64{1, 2, 3} {
		ev, err := DecodeEvent(b.published[i])
		if err != nil {
			t.Fatalf("published payload #%d is invalid: %v", i, err)
		}
		if *ev.ID != want {
			t.Fatalf("expected publish order 1,2,3; position %d has id %d", i, *ev.ID)
		}
	}
	if len(ob.entries) != 0 {
		t.Fatalf("expected outbox drained, %d entries remain", len(ob.entries))
	}
	if len(ob.sent) != 3 {
		t.Fatalf("expected 3 entries marked sent, got %d", len(ob.sent))
	}
}

func TestRelay_Drain_HaltsBatchOnFirstFailure(t *testing.T) {
	ob := &fakeOutbox{}
	stageEntries(t, ob, "hospital_a", 1, 2, 3)

	b := &fakePubBus{failOn: 2}
	r := NewRelay(ob, b, nil)

	err := r.drain(context.Background())
	if !errors.Is(err, bus.ErrUnavailable) {
		t.Fatalf("expected bus.ErrUnavailable, got %v", err)
	}
	// el primero salió, el resto queda pendiente sin saltear nada
	if len(b.published) != 1 {
		t.Fatalf("expected only 1 event published, got %d", len(b.published))
	}
	if len(ob.entries) != 2 {
		t.Fatalf("expected 2 entries still pending, got %d", len(ob.entries))
	}

	// al reintentar, continúa desde donde cortó y en el mismo orden
	b.failOn = 0
	if err := r.drain(context.Background()); err != nil {
		t.Fatalf("retry drain error: %v", err)
	}
	for i, want := range []int64{1, 2, 3} {
		ev, err := DecodeEvent(b.published[i])
		if err != nil {
			t.Fatalf("published payload #%d is invalid: %v", i, err)
		}
		if *ev.ID != want {
			t.Fatalf("expected preserved order after retry, position %d has id %d", i, *ev.ID)
		}
	}
}

func TestRelay_Drain_LoopsThroughLargeBacklog(t *testing.T) {
	ob := &fakeOutbox{}
	stageEntries(t, ob, "hospital_a", 1, 2, 3, 4, 5)

	b := &fakePubBus{}
	r := NewRelay(ob, b, nil)
	r.batch = 2

	if err := r.drain(context.Background()); err != nil {
		t.Fatalf("drain error: %v", err)
	}
	if len(b.published) != 5 {
		t.Fatalf("expected full backlog published, got %d", len(b.published))
	}
	if len(ob.entries) != 0 {
		t.Fatalf("expected outbox drained, %d entries remain", len(ob.entries))
	}
}

func TestRelay_Run_PublishesPendingOnTick(t *testing.T) {
	ob := &fakeOutbox{}
	stageEntries(t, ob, "hospital_a", 42)

	b := &fakePubBus{notify: make(chan struct{}, 1)}
	r := NewRelay(ob, b, nil)
	r.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-b.notify:
	case <-time.After(2 * time.Second):
		t.Fatalf("relay never published the pending entry")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after ctx cancel")
	}

	if len(b.published) == 0 {
		t.Fatalf("expected pending entry published")
	}
	ev, err := DecodeEvent(b.published[0])
	if err != nil {
		t.Fatalf("published payload is invalid: %v", err)
	}
	if ev.Action != ActionDelete || *ev.ID != 42 {
		t.Fatalf("expected delete id=42, got %#v", ev)
	}
}

func TestOutboxPublisher_StagesEncodedEventsWithOrigin(t *testing.T) {
	ob := &fakeOutbox{}
	pub := NewOutboxPublisher(ob, "hospital_a")

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return now }

	p := patients.Patient{ID: 42, Name: "Ana Torres", Age: 34, Diagnosis: "migraña", LastUpdate: now}
	if err := pub.RecordUpserted(context.Background(), p); err != nil {
		t.Fatalf("RecordUpserted error: %v", err)
	}
	if err := pub.RecordsCleared(context.Background()); err != nil {
		t.Fatalf("RecordsCleared error: %v", err)
	}

	if len(ob.entries) != 2 {
		t.Fatalf("expected 2 staged entries, got %d", len(ob.entries))
	}
	for _, e := range ob.entries {
		if e.ID == "" {
			t.Fatalf("expected non-empty entry id")
		}
		if e.CreatedAt != now {
			t.Fatalf("expected CreatedAt %v, got %v", now, e.CreatedAt)
		}
	}

	first, err := DecodeEvent(ob.entries[0].Payload)
	if err != nil {
		t.Fatalf("staged payload is invalid: %v", err)
	}
	if first.Action != ActionUpsert || first.Origin != "hospital_a" {
		t.Fatalf("expected upsert from hospital_a, got %#v", first)
	}
	if *first.ID != 42 {
		t.Fatalf("expected id 42, got %d", *first.ID)
	}

	second, err := DecodeEvent(ob.entries[1].Payload)
	if err != nil {
		t.Fatalf("staged payload is invalid: %v", err)
	}
	if second.Action != ActionClearAll || second.Origin != "hospital_a" {
		t.Fatalf("expected clear_all from hospital_a, got %#v", second)
	}
}
