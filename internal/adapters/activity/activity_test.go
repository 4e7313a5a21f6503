package activity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/packtrack/internal/adapters/activity"
	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/secondary"
)

func TestZapLog_WritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := activity.NewZapLog(zap.New(core))

	ctx := ctxutil.WithActor(context.Background(), "ayse")
	sink.Log(ctx, secondary.ActivityEntry{
		Event:      secondary.EventSeal,
		EntityType: "box",
		EntityCode: "B-7K2Q",
		EntityName: "Koli-1",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "box seal", entry.Message)
	assert.Equal(t, "activity", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "ayse", fields["actor"])
	assert.Equal(t, "B-7K2Q", fields["entity_code"])
	assert.Equal(t, "Koli-1", fields["entity_name"])
	assert.NotContains(t, fields, "detail")
}

func TestZapLog_ExplicitActorWins(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := activity.NewZapLog(zap.New(core))

	sink.Log(ctxutil.WithActor(context.Background(), "ayse"), secondary.ActivityEntry{
		Actor: "mehmet", Event: secondary.EventDelete, EntityType: "pallet", EntityCode: "P-AAAA",
	})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "mehmet", logs.All()[0].ContextMap()["actor"])
}

// recorder collects entries; block, when set, stalls delivery until closed.
type recorder struct {
	mu      sync.Mutex
	entries []secondary.ActivityEntry
	block   chan struct{}
}

func (r *recorder) Log(_ context.Context, e secondary.ActivityEntry) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorder) all() []secondary.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]secondary.ActivityEntry(nil), r.entries...)
}

func TestAsync_DeliversInOrder(t *testing.T) {
	rec := &recorder{}
	a := activity.NewAsync(rec, 8)

	ctx := ctxutil.WithActor(context.Background(), "ayse")
	for _, code := range []string{"B-AAAA", "B-BBBB", "B-CCCC"} {
		a.Log(ctx, secondary.ActivityEntry{Event: secondary.EventCreate, EntityType: "box", EntityCode: code})
	}
	require.NoError(t, a.Close(context.Background()))

	got := rec.all()
	require.Len(t, got, 3)
	assert.Equal(t, "B-AAAA", got[0].EntityCode)
	assert.Equal(t, "B-CCCC", got[2].EntityCode)
	assert.Equal(t, "ayse", got[1].Actor, "actor resolved before hand-off")
	assert.Zero(t, a.Dropped())
}

func TestAsync_DropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	a := activity.NewAsync(rec, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			a.Log(context.Background(), secondary.ActivityEntry{Event: secondary.EventUpdate})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked on a stalled sink")
	}

	close(rec.block)
	require.NoError(t, a.Close(context.Background()))

	// One entry may be in flight and one queued; the rest were dropped.
	assert.Equal(t, int64(10), a.Dropped()+int64(len(rec.all())))
	assert.GreaterOrEqual(t, a.Dropped(), int64(8))
}

func TestAsync_LogAfterCloseIsDropped(t *testing.T) {
	rec := &recorder{}
	a := activity.NewAsync(rec, 4)
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()), "close is idempotent")

	a.Log(context.Background(), secondary.ActivityEntry{Event: secondary.EventCreate})
	assert.Equal(t, int64(1), a.Dropped())
	assert.Empty(t, rec.all())
}

type panicky struct{}

func (panicky) Log(context.Context, secondary.ActivityEntry) { panic("sink exploded") }

func TestAsync_SurvivesPanickingSink(t *testing.T) {
	a := activity.NewAsync(panicky{}, 4)
	a.Log(context.Background(), secondary.ActivityEntry{Event: secondary.EventCreate})
	a.Log(context.Background(), secondary.ActivityEntry{Event: secondary.EventCreate})
	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, int64(2), a.Dropped())
}
