package bench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTableHeader(t *testing.T) {
	t.Parallel()

	out := FormatTable(nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	require.Equal(t,
		[]string{"instance", "exact", "mean", "best", "std", "mean_time", "best_time", "gap"},
		strings.Fields(lines[0]),
	)
	require.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])
}

func TestFormatTableRows(t *testing.T) {
	t.Parallel()

	rows := []Summary{
		{
			Instance:   "u120_00",
			Exact:      48,
			ExactKnown: true,
			MeanObj:    49.2,
			BestObj:    48,
			StdObj:     0.4,
			MeanTime:   1.2345,
			BestTime:   1.0001,
			Gap:        0,
			Succeeded:  5,
		},
		{
			Instance:  "unknown_opt",
			MeanObj:   15,
			BestObj:   15,
			MeanTime:  0.5,
			BestTime:  0.5,
			Succeeded: 3,
		},
		{
			Instance:   "all_failed",
			Exact:      4,
			ExactKnown: true,
			Failed:     5,
		},
	}

	out := FormatTable(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	first := strings.Fields(lines[2])
	require.Equal(t, []string{"u120_00", "48", "49.20", "48", "0.40", "1.2345", "1.0001", "0.00"}, first)

	second := strings.Fields(lines[3])
	require.Equal(t, []string{"unknown_opt", "-", "15.00", "15", "0.00", "0.5000", "0.5000", "-"}, second)

	third := strings.Fields(lines[4])
	require.Equal(t, []string{"all_failed", "4", "-", "-", "-", "-", "-", "-"}, third)
}
