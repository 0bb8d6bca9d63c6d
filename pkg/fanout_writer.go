package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// FanOutWriter copies every write to all of its sinks, e.g. stdout and the rotated
// log file. A failing sink does not stop the others.
type FanOutWriter struct {
	sinks []io.Writer
}

func NewFanOutWriter(sinks ...io.Writer) *FanOutWriter {
	return &FanOutWriter{sinks: append([]io.Writer(nil), sinks...)}
}

func (f *FanOutWriter) Sinks() int {
	return len(f.sinks)
}

// Write reports len(p) as soon as one sink took all of p, along with the errors
// of the sinks that did not. It reports 0 only when every sink failed.
func (f *FanOutWriter) Write(p []byte) (int, error) {
	if len(f.sinks) == 0 {
		return len(p), nil
	}

	var errs error
	delivered := false
	for i, sink := range f.sinks {
		n, err := sink.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sink %d: %w", i, err))
			continue
		}
		delivered = true
	}

	if !delivered {
		return 0, errs
	}
	return len(p), errs
}
