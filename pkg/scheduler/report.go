package scheduler

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/minepenge/minepenge/pkg/domain"
)

// PrintRun writes a human readable run report
func PrintRun(w io.Writer, run domain.Run) {
	fmt.Fprintf(w, "run %s: %s\n", run.ID, run.Status)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "source\tfound\tknown\tfetched\taccepted\tshort\tlanguage\tlow score\tfailed\t")
	for _, s := range run.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n", s.Source, s.Found, s.Known, s.Validated,
			s.Processed, s.TooShort, s.WrongLang, s.LowRelevant, s.Failed, s.Error)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "accepted %d, new %d, duplicates removed %d, dataset total %d\n",
		run.Accepted, run.New, run.Duplicates, run.Total)
	if run.Error != "" {
		fmt.Fprintf(w, "error: %s\n", run.Error)
	}
}
