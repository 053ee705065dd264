package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ikkim/foodhub-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeWarmer) WarmAll(ctx context.Context) (service.WarmResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return service.WarmResult{}, errors.New("missing deadline")
	}
	return service.WarmResult{Restaurants: 1}, f.err
}

func TestCatalogWarmScheduler_Start(t *testing.T) {
	t.Run("Empty schedule is disabled", func(t *testing.T) {
		s := NewCatalogWarmScheduler(&fakeWarmer{}, "")
		require.NoError(t, s.Start())
		assert.Empty(t, s.cron.Entries())
		s.Stop()
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		s := NewCatalogWarmScheduler(&fakeWarmer{}, "every tuesday")
		assert.Error(t, s.Start())
	})

	t.Run("Valid schedule registers one job", func(t *testing.T) {
		s := NewCatalogWarmScheduler(&fakeWarmer{}, "*/15 * * * *")
		require.NoError(t, s.Start())
		assert.Len(t, s.cron.Entries(), 1)
		s.Stop()
	})
}

func TestCatalogWarmScheduler_Run(t *testing.T) {
	warmer := &fakeWarmer{}
	s := NewCatalogWarmScheduler(warmer, "@hourly")

	s.run()
	warmer.err = errors.New("s3 unavailable")
	s.run()

	assert.Equal(t, 2, warmer.calls)
}
