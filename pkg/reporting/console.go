package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vqminh/etf-meanrev/internal/backtest"
	"github.com/vqminh/etf-meanrev/pkg/config"
)

// ConsoleReporter prints backtest results to stdout
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintConfig prints the strategy parameters as a table
func (r *ConsoleReporter) PrintConfig(cfg config.StrategyConfig) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("STRATEGY CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 RSI Period", cfg.RSIPeriod},
		{"📉 Oversold", fmt.Sprintf("%.1f", cfg.RSIOversold)},
		{"📈 Overbought", fmt.Sprintf("%.1f", cfg.RSIOverbought)},
		{"🛑 Stop Loss", fmt.Sprintf("%.1f%%", cfg.StopLossPct*100)},
		{"💰 Position Size", fmt.Sprintf("%.0f%%", cfg.PositionSizePct*100)},
	})

	t.AppendSeparator()

	hedge := "disabled"
	if cfg.HedgeEnabled() {
		hedge = fmt.Sprintf("open ≥%.0f close ≤%.0f size %.0f%% cap %.0f%%",
			cfg.HedgeOpenRSI, cfg.HedgeCloseRSI, cfg.HedgeSizePct*100, cfg.HedgeMaxPct*100)
	}
	t.AppendRows([]table.Row{
		{"🛡️ Hedge", hedge},
		{"🔍 Filters", filterList(cfg)},
		{"⏱️ Fill Policy", string(cfg.Fill)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// OutputResults prints the run summary
func (r *ConsoleReporter) OutputResults(result *backtest.Result, initialCapital float64) {
	m := result.Metrics

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 BACKTEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("💰 Initial Capital:    $%.2f\n", initialCapital)
	fmt.Printf("💰 Final Equity:       $%.2f\n", result.FinalEquity)
	fmt.Printf("📈 Total Return:       %.2f%%\n", m.TotalReturnPct)
	fmt.Printf("📈 Annualized Return:  %.2f%%\n", m.AnnualizedReturnPct)
	fmt.Printf("📉 Max Drawdown:       %.2f%%\n", m.MaxDrawdownPct)
	fmt.Printf("📊 Sharpe Ratio:       %.2f\n", m.SharpeRatio)
	fmt.Printf("📊 Sortino Ratio:      %.2f\n", m.SortinoRatio)
	fmt.Printf("💹 Profit Factor:      %s\n", formatProfitFactor(m.ProfitFactor))
	fmt.Printf("🔄 Total Trades:       %d\n", m.TotalTrades)
	fmt.Printf("✅ Winning Trades:     %d (%.1f%%)\n", m.WinningTrades, m.WinRate)
	fmt.Printf("❌ Losing Trades:      %d\n", m.LosingTrades)
	fmt.Printf("⚡ Execution Time:     %.2f ms\n", m.ExecutionTimeMs)

	if len(result.Events) > 0 {
		fmt.Printf("⚠️  Events:             %d\n", len(result.Events))
	}
}

// PrintTrades prints the trade log as a table
func (r *ConsoleReporter) PrintTrades(trades []backtest.TradeRecord) {
	if len(trades) == 0 {
		fmt.Println("No trades executed.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Side", "Entry", "Exit", "Qty", "Entry $", "Exit $", "P&L", "P&L %", "Exit Reason"})

	for i, tr := range trades {
		t.AppendRow(table.Row{
			i + 1,
			tr.Side,
			tr.EntryTime.Format("2006-01-02"),
			tr.ExitTime.Format("2006-01-02"),
			fmt.Sprintf("%.0f", tr.Quantity),
			fmt.Sprintf("%.2f", tr.EntryPrice),
			fmt.Sprintf("%.2f", tr.ExitPrice),
			fmt.Sprintf("%.2f", tr.PnL),
			fmt.Sprintf("%.2f%%", tr.PnLPct),
			tr.ExitReason,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}

// PrintSweepRanking prints sweep results ordered best-first
func (r *ConsoleReporter) PrintSweepRanking(results []backtest.SweepResult, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("SWEEP RANKING")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "ID", "Return %", "Sharpe", "Max DD %", "Trades", "Stop %", "Oversold", "Overbought"})

	for i, res := range results {
		if limit > 0 && i >= limit {
			break
		}
		if res.Err != nil {
			t.AppendRow(table.Row{i + 1, res.ID, "-", "-", "-", "-", "-", "-", fmt.Sprintf("error: %v", res.Err)})
			continue
		}
		m := res.Result.Metrics
		t.AppendRow(table.Row{
			i + 1,
			res.ID,
			fmt.Sprintf("%.2f", m.TotalReturnPct),
			fmt.Sprintf("%.2f", m.SharpeRatio),
			fmt.Sprintf("%.2f", m.MaxDrawdownPct),
			m.TotalTrades,
			fmt.Sprintf("%.1f", res.Config.StopLossPct*100),
			fmt.Sprintf("%.0f", res.Config.RSIOversold),
			fmt.Sprintf("%.0f", res.Config.RSIOverbought),
		})
	}

	t.Render()
	fmt.Println()
}

func filterList(cfg config.StrategyConfig) string {
	var on []string
	if cfg.VWAPFilter {
		on = append(on, "vwap")
	}
	if cfg.TrendFilter {
		on = append(on, fmt.Sprintf("trend(%d)", cfg.TrendSMAPeriod))
	}
	if cfg.VolumeFilter {
		on = append(on, fmt.Sprintf("volume(≥%.1fx)", cfg.VolumeMinRatio))
	}
	if cfg.BollingerFilter {
		on = append(on, fmt.Sprintf("bollinger(%d,%.1f)", cfg.BBPeriod, cfg.BBStdDev))
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}

func formatProfitFactor(pf backtest.ProfitFactor) string {
	if !pf.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", pf.Value)
}
