// Package snoop drives frames from a source through the match pipeline
// and renders the admitted ones.
package snoop

import (
	"context"
	"errors"
	"fmt"
	"io"

	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/log"
	"firestige.xyz/overwatch/internal/metrics"
	"firestige.xyz/overwatch/internal/source"
)

// Processor classifies one frame.
type Processor interface {
	Process(frame []byte) (chain *core.Chain, admitted bool, err error)
}

// Output renders admitted frames.
type Output interface {
	Separator() error
	Frame(chain *core.Chain, frame []byte) error
}

// stopper is implemented by live sources whose reads can be interrupted.
type stopper interface {
	Stop()
}

type Options struct {
	Name string // source label in logs and metrics
	Live bool   // read errors are logged and skipped instead of ending the run
}

// Loop is a single threaded capture loop. Each frame is classified and
// rendered before the next one is read.
type Loop struct {
	src  source.Source
	proc Processor
	out  Output
	opts Options
}

func New(src source.Source, proc Processor, out Output, opts Options) *Loop {
	return &Loop{src: src, proc: proc, out: out, opts: opts}
}

// Run prints the leading separator and then consumes the source until it
// reports io.EOF or ctx is cancelled. Cancellation is not an error.
func (l *Loop) Run(ctx context.Context) error {
	logger := log.GetLogger().WithField("source", l.opts.Name)

	if st, ok := l.src.(stopper); ok {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				st.Stop()
			case <-done:
			}
		}()
	}

	if err := l.out.Separator(); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}

	read := metrics.FramesReadTotal.WithLabelValues(l.opts.Name)
	readErrors := metrics.ReadErrorsTotal.WithLabelValues(l.opts.Name)
	rendered := metrics.FramesRenderedTotal.WithLabelValues(l.opts.Name)

	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := l.src.ReadFrame()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if !l.opts.Live {
				return fmt.Errorf("read frame: %w", err)
			}
			readErrors.Inc()
			logger.WithError(err).Error("rx error")
			continue
		}
		read.Inc()

		chain, admitted, err := l.proc.Process(frame)
		if err != nil && logger.IsDebugEnabled() {
			logger.WithError(err).Debug("partial header chain")
		}
		if !admitted {
			continue
		}
		if err := l.out.Frame(chain, frame); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}
		rendered.Inc()
	}
}
