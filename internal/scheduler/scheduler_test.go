package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrwolf/budget-ai/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	calls atomic.Int32
	err   atomic.Pointer[error]
}

func (f *fakeProber) HealthCheck(ctx context.Context) error {
	f.calls.Add(1)
	if p := f.err.Load(); p != nil {
		return *p
	}
	return nil
}

func (f *fakeProber) Model() string { return "test-model" }

func (f *fakeProber) fail(err error) { f.err.Store(&err) }

func TestStatusBeforeFirstProbe(t *testing.T) {
	s, err := New(&fakeProber{}, time.Minute)
	require.NoError(t, err)

	st := s.Status()
	assert.Equal(t, models.UpstreamUnknown, st.Upstream)
	assert.Equal(t, "test-model", st.Model)
	assert.True(t, st.CheckedAt.IsZero())
}

func TestCheckRecordsResult(t *testing.T) {
	p := &fakeProber{}
	s, err := New(p, time.Minute)
	require.NoError(t, err)

	st := s.Check(context.Background())
	assert.Equal(t, models.UpstreamConnected, st.Upstream)
	assert.Empty(t, st.Err)

	p.fail(errors.New("connection refused"))
	st = s.Check(context.Background())
	assert.Equal(t, models.UpstreamUnreachable, st.Upstream)
	assert.Equal(t, "connection refused", st.Err)
	assert.Equal(t, st, s.Status())
}

func TestStartProbesImmediately(t *testing.T) {
	p := &fakeProber{}
	s, err := New(p, time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return s.Status().Upstream == models.UpstreamConnected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), p.calls.Load())
}
