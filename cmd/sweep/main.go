package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/vqminh/etf-meanrev/internal/backtest"
	"github.com/vqminh/etf-meanrev/internal/monitoring"
	"github.com/vqminh/etf-meanrev/pkg/config"
	"github.com/vqminh/etf-meanrev/pkg/data"
	"github.com/vqminh/etf-meanrev/pkg/reporting"
	"github.com/vqminh/etf-meanrev/pkg/types"
)

// sweep backtests many randomized parameter sets in parallel and prints
// the ranking. With -listen it also serves /metrics and /health while the
// sweep runs.
func main() {
	var (
		dataFile = flag.String("data", "", "Path to historical bar data (CSV); synthetic data when empty")
		runs     = flag.Int("runs", 200, "Number of randomized configurations to test")
		workers  = flag.Int("workers", 0, "Worker count (0 = number of CPUs)")
		seed     = flag.Int64("seed", 1, "Seed for configuration randomization")
		topN     = flag.Int("top", 20, "How many ranked results to print")
		listen   = flag.String("listen", "", "Address for /metrics and /health (e.g. :9090); disabled when empty")
		envFile  = flag.String("env", ".env", "Environment file path")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not load env file %s: %v", *envFile, err)
	}

	var bars []types.Bar
	if *dataFile == "" {
		log.Println("📊 No data file given, generating synthetic series")
		bars = data.GenerateSynthetic(data.DefaultSyntheticParams())
	} else {
		var err error
		bars, err = data.NewCSVProvider(2).LoadBars(*dataFile)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	configs := randomConfigs(*runs, *seed)
	health := monitoring.NewHealthChecker(len(configs))

	if *listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		mux.Handle("/health", health)
		go func() {
			log.Printf("📡 Serving metrics on %s", *listen)
			if err := http.ListenAndServe(*listen, mux); err != nil {
				log.Printf("⚠️ Metrics server stopped: %v", err)
			}
		}()
	}

	log.Printf("🚀 Sweeping %d configurations over %d bars", len(configs), len(bars))
	results := backtest.RunSweep(*workers, configs, bars)

	for _, res := range results {
		health.MarkCompleted(res.Err)
		monitoring.RecordRun("vector", res.Duration.Seconds(), res.Err == nil)
		if res.Err != nil {
			monitoring.RecordError("sweep_run")
			continue
		}
		monitoring.RecordResult(res.Result.FinalEquity, res.Result.Metrics.TotalTrades)
	}

	if len(results) == 0 {
		log.Fatal("❌ Nothing to rank: no runs executed")
	}

	rankResults(results)
	reporting.NewConsoleReporter().PrintSweepRanking(results, *topN)

	best := results[0]
	if best.Err == nil {
		log.Printf("🏆 Best run %s: return %.2f%%, Sharpe %.2f",
			best.ID, best.Result.Metrics.TotalReturnPct, best.Result.Metrics.SharpeRatio)
	}
}

// rankResults orders by Sharpe, then total return. Failed runs sink to the
// bottom.
func rankResults(results []backtest.SweepResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return false
		}
		if a.Result.Metrics.SharpeRatio != b.Result.Metrics.SharpeRatio {
			return a.Result.Metrics.SharpeRatio > b.Result.Metrics.SharpeRatio
		}
		return a.Result.Metrics.TotalReturnPct > b.Result.Metrics.TotalReturnPct
	})
}

// randomConfigs perturbs the tunable thresholds around the defaults. Every
// generated config passes validation by construction.
func randomConfigs(n int, seed int64) []config.StrategyConfig {
	rng := rand.New(rand.NewSource(seed))

	configs := make([]config.StrategyConfig, n)
	for i := range configs {
		cfg := config.Default()
		cfg.RSIOversold = 10 + rng.Float64()*30  // 10..40
		cfg.RSIOverbought = 65 + rng.Float64()*25 // 65..90
		cfg.StopLossPct = 0.02 + rng.Float64()*0.08
		cfg.PositionSizePct = 0.5 + rng.Float64()*0.5
		cfg.HedgeOpenRSI = 85 + rng.Float64()*10
		cfg.HedgeCloseRSI = 40 + rng.Float64()*30
		cfg.HedgeSizePct = rng.Float64() * 0.4
		cfg.HedgeMaxPct = cfg.HedgeSizePct
		cfg.TrendFilter = rng.Intn(2) == 0
		cfg.TrendSMAPeriod = 50 + rng.Intn(200)
		configs[i] = cfg
	}
	return configs
}
