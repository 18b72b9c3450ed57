package sum

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const (
	KEY_SEPARATOR     = "\t"
	TOP_HEADER_FORMAT = "Top %d periods by revenue\n"
)

type ReportOptions struct {
	// Align pads the key column with spaces. Leave it off for keys that already carry
	// their own tab padding.
	Align bool
	// TopK appends a ranking of the k best periods. Zero disables it.
	TopK int
}

// Render writes one "key<TAB>total" line per period in key order, totals with two decimals.
func Render(w io.Writer, totals *PeriodTotals, opts ReportOptions) error {
	out := w
	var tw *tabwriter.Writer
	if opts.Align {
		tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		out = tw
	}

	for _, key := range totals.Keys() {
		if _, err := fmt.Fprintf(out, "%s%s%s\n", key, KEY_SEPARATOR, totals.Total(key).StringFixed(TOTAL_DECIMALS)); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}

	if tw != nil {
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to flush report: %w", err)
		}
	}

	if opts.TopK <= 0 || totals.Len() == 0 {
		return nil
	}

	top := totals.TopPeriods(opts.TopK)
	if _, err := fmt.Fprintf(w, "\n"+TOP_HEADER_FORMAT, len(top)); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for i, period := range top {
		key := strings.TrimRight(period.Key, " \t")
		if _, err := fmt.Fprintf(w, "%d. %s%s%s\n", i+1, key, KEY_SEPARATOR, period.Total.StringFixed(TOTAL_DECIMALS)); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}
	return nil
}

func RenderBytes(totals *PeriodTotals, opts ReportOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, totals, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
