package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, s *domain.RunSummary) error {
	tw := newTabWriter(w)
	tw.writef("Run:\t%s\n", s.RunID)
	tw.writef("Targets:\t%d\n", s.Targets)
	tw.writef("Seen:\t%d (%d duplicate)\n", s.Seen, s.Duplicate)
	tw.writef("Published:\t%d\n", s.Published)
	tw.writef("Held:\t%d\n", s.Held)
	tw.writef("Rejected:\t%d\n", s.Rejected)
	tw.writef("Frozen:\t%v\n", s.Frozen)
	tw.writef("Timed out:\t%v\n", s.TimedOut)
	tw.writef("Duration:\t%s\n", s.Duration.Round(time.Second))
	return tw.finish()
}

func printFMV(w io.Writer, r *domain.FMVResult) error {
	tw := newTabWriter(w)
	tw.writef("FMV:\t%d EUR\n", r.FMV)
	tw.writef("Confidence:\t%s\n", r.Confidence)
	tw.writef("Samples:\t%d\n", r.SampleSize)
	tw.writef("Method:\t%s\n", r.Method)
	if r.Floored {
		tw.writef("Floored:\tyes\n")
	}
	return tw.finish()
}
