package bench

import (
	"fmt"
	"strings"
)

// FormatTable renders summaries as the plain-text report consumed by the
// downstream table tooling: whitespace-separated columns
// `instance exact mean best std mean_time best_time gap` under a fixed
// 2-line header, with `-` marking unavailable exact/gap fields. The column
// order and sentinel convention are a compatibility contract.
func FormatTable(rows []Summary) string {
	var b strings.Builder
	header := formatRow("instance", "exact", "mean", "best", "std", "mean_time", "best_time", "gap")
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteByte('\n')

	for _, row := range rows {
		exact, gap := "-", "-"
		if row.ExactKnown {
			exact = fmt.Sprintf("%d", row.Exact)
			if row.Succeeded > 0 {
				gap = fmt.Sprintf("%.2f", row.Gap)
			}
		}
		if row.Succeeded == 0 {
			b.WriteString(formatRow(row.Instance, exact, "-", "-", "-", "-", "-", "-"))
		} else {
			b.WriteString(formatRow(
				row.Instance,
				exact,
				fmt.Sprintf("%.2f", row.MeanObj),
				fmt.Sprintf("%d", row.BestObj),
				fmt.Sprintf("%.2f", row.StdObj),
				fmt.Sprintf("%.4f", row.MeanTime),
				fmt.Sprintf("%.4f", row.BestTime),
				gap,
			))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatRow(instance, exact, mean, best, std, meanTime, bestTime, gap string) string {
	return fmt.Sprintf("%-22s %6s %8s %6s %8s %12s %12s %8s",
		instance, exact, mean, best, std, meanTime, bestTime, gap)
}
