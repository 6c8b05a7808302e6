package css

import (
	"io"
)

// Result of a single stylesheet rewrite.
type Result struct {
	CSS          []byte   // rewritten stylesheet
	Declarations int      // declarations offered to the callback
	Changed      int      // declarations whose value was replaced
	Warnings     []string // structural problems noticed while walking
}

// Modified reports whether any declaration value was replaced.
func (r *Result) Modified() bool {
	return r.Changed > 0
}

// WriteTo writes rewritten stylesheet to w, implementing io.WriterTo.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.CSS)
	return int64(n), err
}

// String returns the CSS text of the rewritten stylesheet.
func (r *Result) String() string {
	return string(r.CSS)
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
