package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vqminh/etf-meanrev/internal/backtest"
	"github.com/vqminh/etf-meanrev/pkg/config"
	"github.com/vqminh/etf-meanrev/pkg/data"
	"github.com/vqminh/etf-meanrev/pkg/reporting"
	"github.com/vqminh/etf-meanrev/pkg/types"
)

const (
	DefaultEngine    = "vector"
	DefaultCacheSize = 8
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to strategy configuration file (JSON)")
		dataFile    = flag.String("data", "", "Path to historical bar data (CSV); synthetic data when empty")
		engineName  = flag.String("engine", DefaultEngine, "Engine to run: reference or vector")
		jsonOut     = flag.String("json", "", "Write the full result as JSON to this path")
		excelOut    = flag.String("excel", "", "Write a trades/metrics/equity workbook to this path")
		printTrades = flag.Bool("trades", false, "Print the trade log")
		consoleOnly = flag.Bool("console-only", false, "Only display results in console, do not write files")
		envFile     = flag.String("env", ".env", "Environment file path")
	)
	flag.Parse()

	// Optional env file; flags always win.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not load env file %s: %v", *envFile, err)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	bars, err := loadBars(*dataFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	engine, err := selectEngine(*engineName, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Printf("🚀 Running %s engine over %d bars", *engineName, len(bars))
	result, err := engine.Run(bars)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}

	console := reporting.NewConsoleReporter()
	console.PrintConfig(cfg)
	console.OutputResults(result, cfg.InitialCapital)
	if *printTrades {
		console.PrintTrades(result.Trades)
	}

	if *consoleOnly {
		return
	}

	report := reporting.RunReport{
		GeneratedAt: time.Now(),
		Engine:      *engineName,
		Config:      cfg,
		Result:      result,
	}
	if *jsonOut != "" {
		if err := reporting.NewJSONReporter().WriteFile(report, *jsonOut); err != nil {
			log.Fatalf("❌ Failed to write JSON report: %v", err)
		}
		log.Printf("💾 JSON report written to %s", *jsonOut)
	}
	if *excelOut != "" {
		if err := reporting.NewExcelReporter().WriteReportXLSX(result, *excelOut); err != nil {
			log.Fatalf("❌ Failed to write Excel report: %v", err)
		}
		log.Printf("💾 Excel report written to %s", *excelOut)
	}
}

func loadConfig(path string) (config.StrategyConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func loadBars(path string) ([]types.Bar, error) {
	if path == "" {
		log.Println("📊 No data file given, generating synthetic series")
		return data.GenerateSynthetic(data.DefaultSyntheticParams()), nil
	}
	return data.NewCSVProvider(DefaultCacheSize).LoadBars(path)
}

func selectEngine(name string, cfg config.StrategyConfig) (backtest.Runner, error) {
	switch name {
	case "reference":
		return backtest.NewEngine(cfg), nil
	case "vector":
		return backtest.NewVectorEngine(cfg), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, want reference or vector", name)
	}
}
