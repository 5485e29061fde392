package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders per-window results as CSV string.
func RenderCSV(windows []WindowRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("window_id,train_start,train_end,test_start,test_end,best_score,")
	sb.WriteString("train_sharpe,test_sharpe,train_return,test_return,")
	sb.WriteString("train_trades,test_trades,degradation_overall,params\n")

	// Rows
	for _, w := range windows {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%.6f,%s\n",
			w.WindowID,
			w.TrainStart,
			w.TrainEnd,
			w.TestStart,
			w.TestEnd,
			w.BestScore,
			w.TrainSharpe,
			w.TestSharpe,
			w.TrainReturn,
			w.TestReturn,
			w.TrainTrades,
			w.TestTrades,
			w.DegradationOverall,
			formatParams(w.Params),
		))
	}

	return sb.String()
}

// formatParams encodes selected parameters as "name=value" pairs joined
// by semicolons, so the column stays comma-free.
func formatParams(params []ParamRow) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s=%g", p.Name, p.Value)
	}
	return strings.Join(parts, ";")
}
