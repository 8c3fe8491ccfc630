package branch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
)

type mockSyncer struct {
	SyncFunc func(ctx context.Context) ([]domain.Branch, error)
}

func (m *mockSyncer) Sync(ctx context.Context) ([]domain.Branch, error) {
	return m.SyncFunc(ctx)
}

func TestResyncWorker_SyncsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	syncer := &mockSyncer{SyncFunc: func(ctx context.Context) ([]domain.Branch, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("upstream down")
		}
		return nil, nil
	}}
	w := NewResyncWorker(syncer, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
