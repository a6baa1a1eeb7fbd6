package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/flagstore"
	"github.com/trendai/watchdog/watchdog/riskstore"
	"github.com/trendai/watchdog/watchdog/setstore"
)

// Records alerts instead of sending them
type CaptureNotifier struct {
	mu     sync.Mutex
	Alerts []models.TokenRiskScore
}

var _ Notifier = (*CaptureNotifier)(nil)

func (n *CaptureNotifier) SendTokenAlert(ctx context.Context, score, prev *models.TokenRiskScore) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Alerts = append(n.Alerts, *score)
	return nil
}

var FixtureTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Engine with default config, in-memory stores, a fixed clock and a capturing notifier.
func EngineTestFixture() *Engine {
	sets := setstore.NewMemSetStore()
	eng, err := NewEngine(context.Background(), slog.Default(), DefaultConfig(), sets)
	if err != nil {
		panic(err)
	}
	eng.Store = riskstore.NewMemStore()
	eng.Counters = countstore.NewMemCountStore()
	eng.Cache = cachestore.NewMemCacheStore(100, time.Hour)
	eng.Flags = flagstore.NewMemFlagStore()
	eng.Notifier = &CaptureNotifier{}
	eng.Clock = func() time.Time { return FixtureTime }
	return eng
}
