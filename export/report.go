package export

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/opd-ai/chordbook/catalog"
)

// Result is the outcome of one document.
type Result struct {
	Kind     catalog.Kind  `json:"kind"`
	Slug     string        `json:"slug,omitempty"`
	Path     string        `json:"path"`
	Pages    int           `json:"pages,omitempty"`
	Stale    int           `json:"stale,omitempty"`
	Size     int64         `json:"size,omitempty"`
	Checksum string        `json:"checksum,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Error returns the failure message, or an empty string.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Progress is reported after every finished document of a run.
type Progress struct {
	RunID  string `json:"run"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
	Result Result `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Report collects the results of a run in job order.
type Report struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var res []Result
	for _, x := range r.Results {
		if x.Err != nil {
			res = append(res, x)
		}
	}
	return res
}

// Summary writes one line per document followed by the totals.
func (r *Report) Summary(w io.Writer) error {
	var total int64
	for _, x := range r.Results {
		name := x.Path
		if x.Err != nil {
			if _, err := fmt.Fprintf(w, "FAIL %-40s %v\n", name, x.Err); err != nil {
				return err
			}
			continue
		}
		total += x.Size
		line := fmt.Sprintf("ok   %-40s %3d pages %9s", name, x.Pages, humanize.Bytes(uint64(x.Size)))
		if x.Stale > 0 {
			line += fmt.Sprintf(" (%d stale toc entries)", x.Stale)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d documents, %d failed, %s in %s\n",
		len(r.Results), len(r.Failed()), humanize.Bytes(uint64(total)),
		r.Finished.Sub(r.Started).Round(time.Millisecond))
	return err
}
