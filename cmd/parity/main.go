package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vqminh/etf-meanrev/internal/backtest"
	"github.com/vqminh/etf-meanrev/pkg/config"
	"github.com/vqminh/etf-meanrev/pkg/data"
	"github.com/vqminh/etf-meanrev/pkg/types"
)

// parity runs the reference and vector engines over the same data and
// fails loudly on any divergence. Exit code 1 means the engines disagree.
func main() {
	var (
		configFile = flag.String("config", "", "Path to strategy configuration file (JSON)")
		dataFile   = flag.String("data", "", "Path to historical bar data (CSV); synthetic data when empty")
		tolerance  = flag.Float64("tolerance", 0, "Numeric tolerance (0 requires exact equality)")
		envFile    = flag.String("env", ".env", "Environment file path")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not load env file %s: %v", *envFile, err)
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
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

	log.Printf("🚀 Running both engines over %d bars", len(bars))

	ref, err := backtest.NewEngine(cfg).Run(bars)
	if err != nil {
		log.Fatalf("❌ Reference engine failed: %v", err)
	}
	opt, err := backtest.NewVectorEngine(cfg).Run(bars)
	if err != nil {
		log.Fatalf("❌ Vector engine failed: %v", err)
	}

	log.Printf("⚡ reference: %.2f ms, vector: %.2f ms",
		ref.Metrics.ExecutionTimeMs, opt.Metrics.ExecutionTimeMs)

	diffs := backtest.CompareResults(ref, opt, *tolerance)
	if len(diffs) == 0 {
		log.Printf("✅ Parity holds: %d trades, final equity $%.2f", len(ref.Trades), ref.FinalEquity)
		return
	}

	log.Printf("❌ Parity FAILED with %d mismatches:", len(diffs))
	for _, d := range diffs {
		log.Printf("   • %s", d)
	}
	os.Exit(1)
}
