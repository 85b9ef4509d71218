package runner

import (
	"context"
	"time"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/oracle"
	"jsonoracle/internal/util"

	"github.com/pkg/errors"
)

var errInputTimeout = errors.New("input timeout")

// worker owns one oracle. Nothing else touches its adapters.
type worker struct {
	id      int
	r       *Runner
	orc     *oracle.Oracle
	timeout time.Duration
}

func (w *worker) close() {
	if w.orc != nil {
		backend.CloseAll(w.orc.Adapters())
		w.orc = nil
	}
}

func (w *worker) handle(ctx context.Context, j job) error {
	input, ok, err := readInput(j.path, w.r.cfg.MaxInputBytes)
	if err != nil {
		util.Warnf("worker=%d %v", w.id, err)
		w.r.observeSkip()
		return nil
	}
	if !ok {
		w.r.observeSkip()
		return nil
	}
	if w.orc == nil {
		if w.orc, err = w.r.newOracle(); err != nil {
			return err
		}
	}
	v, err := w.evaluate(ctx, input)
	switch {
	case errors.Is(err, errInputTimeout):
		w.r.observeTimeout()
		util.Warnf("worker=%d timeout input=%s budget=%s; rebuilding backends", w.id, j.path, w.timeout)
		return nil
	case err != nil:
		return err
	}
	w.r.observeVerdict(v)
	w.r.maybeWriteCase(ctx, j.path, input, v)
	return nil
}

// evaluate runs one Evaluate under the worker's time budget. A call that
// overruns is abandoned together with its adapters: they are closed once the
// call returns and the worker builds a fresh set for the next input.
func (w *worker) evaluate(ctx context.Context, input []byte) (oracle.Verdict, error) {
	if w.timeout <= 0 {
		return w.orc.Evaluate(input), nil
	}
	orc := w.orc
	done := make(chan oracle.Verdict, 1)
	go func() {
		done <- orc.Evaluate(input)
	}()
	timer := time.NewTimer(w.timeout)
	defer timer.Stop()
	var err error
	select {
	case v := <-done:
		return v, nil
	case <-timer.C:
		err = errInputTimeout
	case <-ctx.Done():
		err = ctx.Err()
	}
	w.orc = nil
	go func() {
		<-done
		backend.CloseAll(orc.Adapters())
	}()
	return oracle.Verdict{}, err
}
