package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqminh/etf-meanrev/pkg/config"
)

func TestRunSweep_AllJobsComplete(t *testing.T) {
	bars := waveBars(200)

	configs := make([]config.StrategyConfig, 0, 6)
	for _, stop := range []float64{0.02, 0.05, 0.08} {
		for _, oversold := range []float64{20, 30} {
			cfg := plainConfig()
			cfg.StopLossPct = stop
			cfg.RSIOversold = oversold
			configs = append(configs, cfg)
		}
	}

	results := RunSweep(4, configs, bars)

	require.Len(t, results, len(configs))
	seen := make(map[string]bool)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Result)
		assert.False(t, seen[res.ID], "job IDs must be unique")
		seen[res.ID] = true
		assert.Len(t, res.Result.EquityCurve, len(bars))
	}
}

func TestRunSweep_InvalidConfigSurfacesError(t *testing.T) {
	bars := waveBars(50)

	bad := plainConfig()
	bad.RSIOversold = 80 // above the overbought threshold

	results := RunSweep(2, []config.StrategyConfig{plainConfig(), bad}, bars)

	require.Len(t, results, 2)
	errCount := 0
	for _, res := range results {
		if res.Err != nil {
			errCount++
			assert.Nil(t, res.Result)
		}
	}
	assert.Equal(t, 1, errCount)
}

func TestRunSweep_MatchesSequentialRun(t *testing.T) {
	// A pooled run must produce the same numbers as running the same
	// config directly; concurrency must not leak state between jobs.
	bars := waveBars(150)
	cfg := plainConfig()

	direct, err := NewVectorEngine(cfg).Run(bars)
	require.NoError(t, err)

	results := RunSweep(3, []config.StrategyConfig{cfg, cfg, cfg}, bars)
	require.Len(t, results, 3)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Empty(t, CompareResults(direct, res.Result, 0))
	}
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Start()
	pool.Stop()

	err := pool.Submit(SweepJob{ID: "late"})
	assert.Error(t, err)
}
