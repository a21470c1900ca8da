package debrief

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Options holds configuration for a pipeline run.
type Options struct {
	// Reporting period; zero week means the previous ISO week.
	week int
	year int
	now  func() time.Time

	// Parallel document parsing
	workers int

	// Layout selection by tag; nil means all layouts of the variant.
	layouts []string

	// Author written into the document properties.
	author string

	logger *zap.Logger
}

// defaultOptions returns the default run options.
func defaultOptions() Options {
	return Options{
		now:     time.Now,
		workers: runtime.NumCPU(),
		author:  "debrief",
		logger:  zap.NewNop(),
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	n := o
	if o.layouts != nil {
		n.layouts = make([]string, len(o.layouts))
		copy(n.layouts, o.layouts)
	}
	return n
}
