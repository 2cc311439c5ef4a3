package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/vqminh/etf-meanrev/internal/backtest"
)

// ExcelReporter writes a multi-sheet workbook for one run
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

type excelStyles struct {
	Header   int
	Currency int
	Percent  int
}

// WriteReportXLSX writes trades, metrics and the equity curve to path.
func (r *ExcelReporter) WriteReportXLSX(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	const metricsSheet = "Metrics"
	const equitySheet = "Equity Curve"

	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)
	fx.NewSheet(metricsSheet)
	fx.NewSheet(equitySheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeTradesSheet(fx, tradesSheet, result.Trades, styles); err != nil {
		return err
	}
	if err := r.writeMetricsSheet(fx, metricsSheet, result, styles); err != nil {
		return err
	}
	if err := r.writeEquitySheet(fx, equitySheet, result.EquityCurve, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.Header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Currency, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Percent, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	return styles, err
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, trades []backtest.TradeRecord, styles excelStyles) error {
	headers := []string{"Side", "Entry Time", "Exit Time", "Quantity", "Entry Price", "Exit Price", "P&L", "P&L %", "Entry Reason", "Exit Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(sheet, "A1", endHeader, styles.Header); err != nil {
		return err
	}

	for i, tr := range trades {
		row := i + 2
		values := []interface{}{
			string(tr.Side),
			tr.EntryTime.Format("2006-01-02"),
			tr.ExitTime.Format("2006-01-02"),
			tr.Quantity,
			tr.EntryPrice,
			tr.ExitPrice,
			tr.PnL,
			tr.PnLPct / 100,
			tr.EntryReason,
			tr.ExitReason,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		pnlCell, _ := excelize.CoordinatesToCellName(7, row)
		fx.SetCellStyle(sheet, pnlCell, pnlCell, styles.Currency)
		pctCell, _ := excelize.CoordinatesToCellName(8, row)
		fx.SetCellStyle(sheet, pctCell, pctCell, styles.Percent)
	}

	return fx.SetColWidth(sheet, "A", "J", 14)
}

func (r *ExcelReporter) writeMetricsSheet(fx *excelize.File, sheet string, result *backtest.Result, styles excelStyles) error {
	m := result.Metrics

	pf := "undefined"
	if m.ProfitFactor.Defined {
		pf = fmt.Sprintf("%.4f", m.ProfitFactor.Value)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Final Equity", result.FinalEquity},
		{"Total Return %", m.TotalReturnPct},
		{"Annualized Return %", m.AnnualizedReturnPct},
		{"Sharpe Ratio", m.SharpeRatio},
		{"Sortino Ratio", m.SortinoRatio},
		{"Max Drawdown %", m.MaxDrawdownPct},
		{"Win Rate %", m.WinRate},
		{"Profit Factor", pf},
		{"Avg Win", m.AvgWin},
		{"Avg Loss", m.AvgLoss},
		{"Total Trades", m.TotalTrades},
		{"Winning Trades", m.WinningTrades},
		{"Losing Trades", m.LosingTrades},
		{"Execution Time (ms)", m.ExecutionTimeMs},
	}

	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := fx.SetCellStyle(sheet, "A1", "B1", styles.Header); err != nil {
		return err
	}

	return fx.SetColWidth(sheet, "A", "B", 22)
}

func (r *ExcelReporter) writeEquitySheet(fx *excelize.File, sheet string, curve []backtest.EquityPoint, styles excelStyles) error {
	if err := fx.SetCellValue(sheet, "A1", "Date"); err != nil {
		return err
	}
	if err := fx.SetCellValue(sheet, "B1", "Equity"); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "B1", styles.Header); err != nil {
		return err
	}

	for i, pt := range curve {
		row := i + 2
		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		eqCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := fx.SetCellValue(sheet, dateCell, pt.Timestamp.Format("2006-01-02")); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, eqCell, pt.Equity); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, eqCell, eqCell, styles.Currency)
	}

	return fx.SetColWidth(sheet, "A", "B", 16)
}
