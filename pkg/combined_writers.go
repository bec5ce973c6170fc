package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans log output to several sinks. A failing sink does not
// stop the others; its error is reported after all were tried.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

// Write returns len(p) if at least one sink accepted the whole message.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	accepted := false
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written == len(p) {
			accepted = true
		}
	}
	if accepted {
		return len(p), err
	}
	return 0, err
}
