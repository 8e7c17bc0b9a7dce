package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord(OpReadDefaultProvider, "preferences", OutcomeResolved, "")

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())
	assert.Equal(t, OpReadDefaultProvider, rec.Operation)
	assert.Equal(t, "preferences", rec.Source)
	assert.Equal(t, OutcomeResolved, rec.Outcome)

	other := NewRecord(OpReadAllProviders, "", OutcomeFallbackBuiltIn, "no persisted configuration")
	assert.NotEqual(t, rec.ID, other.ID)
}

func TestMemorySink_CollectsRecords(t *testing.T) {
	sink := NewMemorySink()

	require.NoError(t, sink.Enqueue(NewRecord(OpReadDefaultProvider, "", OutcomeFallbackBuiltIn, "")))
	require.NoError(t, sink.Enqueue(NewRecord(OpReadAllProviders, "preferences", OutcomeResolved, "")))

	records := sink.Records()
	require.Len(t, records, 2)
	assert.Equal(t, OpReadDefaultProvider, records[0].Operation)
	assert.Equal(t, OpReadAllProviders, records[1].Operation)
}

func TestMemorySink_SnapshotIsIndependent(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.Enqueue(NewRecord(OpReadDefaultProvider, "", OutcomeResolved, "")))

	snapshot := sink.Records()
	require.NoError(t, sink.Enqueue(NewRecord(OpReadAllProviders, "", OutcomeResolved, "")))

	assert.Len(t, snapshot, 1)
	assert.Len(t, sink.Records(), 2)
}

func TestMemorySink_ConcurrentEnqueue(t *testing.T) {
	sink := NewMemorySink()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = sink.Enqueue(NewRecord(OpReadDefaultProvider, "", OutcomeResolved, ""))
			}
		}()
	}
	wg.Wait()

	assert.Len(t, sink.Records(), 1000)
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink()
	assert.NoError(t, sink.Enqueue(NewRecord(OpReadDefaultProvider, "", OutcomeResolved, "")))
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3SinkConfig{})
	assert.Error(t, err)
}
