package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"memory-companion-go/internal/observe"
	"memory-companion-go/internal/types"
)

type stubProcessor struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	fail     map[string]error
	delay    time.Duration
}

func (s *stubProcessor) ProcessRecording(ctx context.Context, rec types.SessionRecord) (types.SessionReport, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return types.SessionReport{}, ctx.Err()
	}
	if err := s.fail[rec.SessionID]; err != nil {
		return types.SessionReport{}, err
	}
	return types.SessionReport{SessionID: rec.SessionID, Transcript: rec.Transcript}, nil
}

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	require.NoError(t, err)
	return m
}

func records(ids ...string) []types.SessionRecord {
	out := make([]types.SessionRecord, len(ids))
	for i, id := range ids {
		out[i] = types.SessionRecord{SessionID: id, Transcript: "t-" + id}
	}
	return out
}

func TestRun_OrderAndLimit(t *testing.T) {
	p := &stubProcessor{delay: 5 * time.Millisecond}
	got, err := Run(context.Background(), p, records("a", "b", "c", "d", "e", "f"), Options{Workers: 2, Metrics: testMetrics(t)})
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.Equal(t, id, got[i].SessionID)
		require.Equal(t, "t-"+id, got[i].Transcript)
	}
	require.LessOrEqual(t, p.maxSeen.Load(), int32(2))
}

func TestRun_FailuresAreReported(t *testing.T) {
	p := &stubProcessor{fail: map[string]error{"b": errors.New("no audio")}}
	got, err := Run(context.Background(), p, records("a", "b", "c"), Options{Metrics: testMetrics(t)})
	require.NoError(t, err)
	require.Empty(t, got[0].Error)
	require.Equal(t, "b", got[1].SessionID)
	require.Equal(t, "no audio", got[1].Error)
	require.Empty(t, got[2].Error)
}

func TestRun_SessionTimeout(t *testing.T) {
	p := &stubProcessor{delay: time.Second}
	got, err := Run(context.Background(), p, records("slow"), Options{SessionTimeout: 10 * time.Millisecond, Metrics: testMetrics(t)})
	require.NoError(t, err)
	require.Contains(t, got[0].Error, context.DeadlineExceeded.Error())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &stubProcessor{}, records("a", "b"), Options{Metrics: testMetrics(t)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	got, err := Run(context.Background(), &stubProcessor{}, nil, Options{Metrics: testMetrics(t)})
	require.NoError(t, err)
	require.Empty(t, got)
}
