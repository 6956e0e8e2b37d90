package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintResult writes a human-readable run summary.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	fmt.Fprintf(w, "Bars:          %d\n", r.Bars)
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Report.TradeCount)
	fmt.Fprintf(w, "Wins:          %d\n", r.Report.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Report.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.Report.WinRate*100)
	if r.Report.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.Report.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.StartBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", r.EndBalance)
	fmt.Fprintf(w, "End Equity:    %.2f\n", r.EndEquity)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.Report.TotalReturn*100)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", r.Report.SharpeRatio)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.Report.MaxDrawdown*100)

	fmt.Fprintln(w)
}
