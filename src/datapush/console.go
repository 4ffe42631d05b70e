package datapush

import (
	"io"

	"DelayInsight/src/model"
	"DelayInsight/src/processor"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrintSummary 在控制台输出概要，数字带千位分隔符
func PrintSummary(w io.Writer, rep *processor.Report, run RunInfo) error {
	p := message.NewPrinter(language.English)
	var err error
	printf := func(format string, a ...any) {
		if err == nil {
			_, err = p.Fprintf(w, format, a...)
		}
	}

	printf("Run %s\n", run.ID)
	printf("Input: %s\n", run.Input)
	printf("Records: %d loaded, %d rejected\n", run.Records, run.Rejected)
	printf("Flights: %d, cancelled %d (%.2f%%)\n", rep.Records, rep.Cancelled, rep.CancelledShare*100)
	for _, c := range model.CancellationCauses {
		if n := rep.CancellationsByCause[c]; n > 0 {
			printf("  cancelled by %-8s %d\n", c, n)
		}
	}

	printf("Delays (minutes, non-zero):\n")
	for _, cr := range rep.Causes {
		s := cr.Describe
		printf("  %-14s n=%d mean=%.1f median=%.1f max=%.0f dropped=%d\n",
			cr.Cause, s.Count, s.Mean, s.Median, s.Max, cr.Histogram.Dropped)
	}
	return err
}
