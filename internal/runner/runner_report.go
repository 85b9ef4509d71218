package runner

import (
	"context"

	"jsonoracle/internal/oracle"
	"jsonoracle/internal/report"
	"jsonoracle/internal/util"
)

// reportable reports whether a verdict deserves a case directory.
func reportable(v oracle.Verdict) bool {
	switch v.Status() {
	case oracle.StatusDisagree, oracle.StatusFault:
		return true
	}
	return false
}

// claimCase reserves a case slot for sig. The first claim of a signature
// reports it as new.
func (r *Runner) claimCase(sig string) (claimed bool, first bool) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	n := r.sigCases[sig]
	if n >= r.cfg.Report.MaxCasesPerSignature {
		return false, false
	}
	r.sigCases[sig] = n + 1
	if n == 0 {
		r.stats.Signatures++
	}
	return true, n == 0
}

func (r *Runner) maybeWriteCase(ctx context.Context, source string, input []byte, v oracle.Verdict) {
	if !reportable(v) {
		return
	}
	sig := v.Signature()
	claimed, first := r.claimCase(sig)
	if !claimed {
		return
	}
	if first {
		util.Highlightf("new signature status=%s %s input=%s", v.Status(), sig, source)
	}
	c, err := r.reporter.NewCase()
	if err != nil {
		util.Warnf("case dir failed input=%s err=%v", source, err)
		return
	}
	summary := report.NewSummary(c, source, input, v, r.cfg.RunInfo)
	summary, err = r.reporter.WriteCase(c, input, v, summary)
	if err != nil {
		util.Warnf("case write failed dir=%s err=%v", c.Dir, err)
		return
	}
	r.statsMu.Lock()
	r.stats.Cases++
	r.statsMu.Unlock()
	if r.uploader.Enabled() {
		location, err := r.uploader.UploadDir(ctx, c.Dir)
		if err != nil {
			util.Warnf("case upload failed dir=%s err=%v", c.Dir, err)
		} else if location != "" {
			summary.UploadLocation = location
			if err := r.reporter.WriteSummary(c, summary); err != nil {
				util.Warnf("summary rewrite failed dir=%s err=%v", c.Dir, err)
			}
		}
	}
	util.Detailf("case written dir=%s", c.Dir)
}
