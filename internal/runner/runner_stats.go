package runner

import (
	"fmt"
	"time"

	"jsonoracle/internal/oracle"
	"jsonoracle/internal/util"
)

// Stats counts what the runner has seen. Timeouts and skips are harness
// events; they never produce a verdict.
type Stats struct {
	Evaluated  int64
	Agree      int64
	Disagree   int64
	Partial    int64
	Fault      int64
	Split      int64
	Timeout    int64
	Skipped    int64
	Cases      int64
	Signatures int64
}

func (s Stats) String() string {
	return fmt.Sprintf("evaluated=%d agree=%d disagree=%d partial=%d fault=%d split=%d timeout=%d skipped=%d cases=%d signatures=%d",
		s.Evaluated, s.Agree, s.Disagree, s.Partial, s.Fault, s.Split, s.Timeout, s.Skipped, s.Cases, s.Signatures)
}

func (s Stats) sub(prev Stats) Stats {
	return Stats{
		Evaluated:  s.Evaluated - prev.Evaluated,
		Agree:      s.Agree - prev.Agree,
		Disagree:   s.Disagree - prev.Disagree,
		Partial:    s.Partial - prev.Partial,
		Fault:      s.Fault - prev.Fault,
		Split:      s.Split - prev.Split,
		Timeout:    s.Timeout - prev.Timeout,
		Skipped:    s.Skipped - prev.Skipped,
		Cases:      s.Cases - prev.Cases,
		Signatures: s.Signatures - prev.Signatures,
	}
}

// Stats returns a snapshot of the counters.
func (r *Runner) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *Runner) observeVerdict(v oracle.Verdict) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	r.stats.Evaluated++
	switch v.Status() {
	case oracle.StatusAgree:
		r.stats.Agree++
	case oracle.StatusDisagree:
		r.stats.Disagree++
	case oracle.StatusPartial:
		r.stats.Partial++
	case oracle.StatusFault:
		r.stats.Fault++
	}
	if v.AcceptanceSplit() {
		r.stats.Split++
	}
}

func (r *Runner) observeTimeout() {
	r.statsMu.Lock()
	r.stats.Timeout++
	r.statsMu.Unlock()
}

func (r *Runner) observeSkip() {
	r.statsMu.Lock()
	r.stats.Skipped++
	r.statsMu.Unlock()
}

func (r *Runner) startStatsLogger() func() {
	interval := time.Duration(r.cfg.Logging.ReportIntervalSeconds) * time.Second
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		var last Stats
		for {
			select {
			case <-ticker.C:
				cur := r.Stats()
				delta := cur.sub(last)
				last = cur
				if delta.Evaluated == 0 && delta.Timeout == 0 && delta.Skipped == 0 {
					continue
				}
				util.Infof("last interval: %s", delta)
				if delta.Evaluated > 0 {
					util.Infof("disagree ratio last interval: %.4f", float64(delta.Disagree)/float64(delta.Evaluated))
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
		<-stopped
	}
}
