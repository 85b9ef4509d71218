// Package repro re-evaluates a stored case and reports where the backends
// no longer match the recorded verdict.
package repro

import (
	"fmt"
	"io"
	"strings"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/config"
	"jsonoracle/internal/oracle"
	"jsonoracle/internal/report"

	"github.com/pkg/errors"
)

// Drift kinds.
const (
	// DriftChanged means the backend now produces a different result.
	DriftChanged = "changed"
	// DriftUnstable means repeated evaluations of the same input disagreed.
	DriftUnstable = "unstable"
	// DriftMissing means a recorded backend was not evaluated again.
	DriftMissing = "missing"
)

// Options configures a reproduction run.
type Options struct {
	CaseDir string
	// Repeat evaluates the input this many times to expose non-determinism.
	Repeat int
	// UseConfigBackends evaluates cfg.Backends instead of the recorded set.
	UseConfigBackends bool
	// Build overrides backend.Build.
	Build func(cfg config.Config) ([]backend.Adapter, error)
}

// Drift is one backend whose result moved.
type Drift struct {
	Backend  string
	Kind     string
	Recorded string
	Current  string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", d.Backend, d.Kind, d.Recorded, d.Current)
}

// Result is the outcome of a reproduction.
type Result struct {
	CaseDir  string
	Input    []byte
	Recorded oracle.Verdict
	Current  oracle.Verdict
	Drifts   []Drift
}

// Reproduced reports whether every recorded backend gave its recorded result
// on every run.
func (r Result) Reproduced() bool {
	return len(r.Drifts) == 0
}

// Run loads the case directory and evaluates its input again.
func Run(cfg config.Config, opts Options) (Result, error) {
	if strings.TrimSpace(opts.CaseDir) == "" {
		return Result{}, errors.New("case dir is required")
	}
	if opts.Repeat <= 0 {
		opts.Repeat = 1
	}
	build := opts.Build
	if build == nil {
		build = backend.Build
	}
	input, recorded, err := report.ReadCase(opts.CaseDir)
	if err != nil {
		return Result{}, errors.Wrapf(err, "load case %s", opts.CaseDir)
	}
	if !opts.UseConfigBackends {
		cfg.Backends = backendNames(recorded)
	}
	adapters, err := build(cfg)
	if err != nil {
		return Result{}, errors.Wrap(err, "build backends")
	}
	defer backend.CloseAll(adapters)
	orc := oracle.New(oracle.WithParallel(cfg.Parallel))
	if err := orc.RegisterAll(adapters); err != nil {
		return Result{}, errors.Wrap(err, "register backends")
	}

	res := Result{CaseDir: opts.CaseDir, Input: input, Recorded: recorded}
	runs := make([]oracle.Verdict, 0, opts.Repeat)
	for i := 0; i < opts.Repeat; i++ {
		runs = append(runs, orc.Evaluate(input))
	}
	res.Current = runs[0]
	res.Drifts = compare(recorded, runs)
	return res, nil
}

func backendNames(v oracle.Verdict) []string {
	names := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		names = append(names, e.Backend)
	}
	return names
}

func resultOf(e oracle.Entry) string {
	if e.Faulted() {
		return "fault"
	}
	return e.Outcome.String()
}

// compare lists drift in recorded order. A backend that varies between runs
// is unstable even when its first run matches the record.
func compare(recorded oracle.Verdict, runs []oracle.Verdict) []Drift {
	var drifts []Drift
	for _, want := range recorded.Entries {
		first, ok := runs[0].Lookup(want.Backend)
		if !ok {
			drifts = append(drifts, Drift{Backend: want.Backend, Kind: DriftMissing, Recorded: resultOf(want), Current: "-"})
			continue
		}
		seen := []string{resultOf(first)}
		for _, run := range runs[1:] {
			e, _ := run.Lookup(want.Backend)
			if r := resultOf(e); r != seen[len(seen)-1] {
				seen = append(seen, r)
			}
		}
		switch {
		case len(seen) > 1:
			drifts = append(drifts, Drift{Backend: want.Backend, Kind: DriftUnstable, Recorded: resultOf(want), Current: strings.Join(seen, "|")})
		case seen[0] != resultOf(want):
			drifts = append(drifts, Drift{Backend: want.Backend, Kind: DriftChanged, Recorded: resultOf(want), Current: seen[0]})
		}
	}
	return drifts
}

// Write prints the current verdict followed by the drift list.
func (r Result) Write(w io.Writer) {
	fmt.Fprintf(w, "case: %s (%d bytes)\n", r.CaseDir, len(r.Input))
	report.Render(w, r.Current)
	if r.Reproduced() {
		fmt.Fprintln(w, "reproduced: every recorded backend matches")
		return
	}
	fmt.Fprintf(w, "drift: %d backend(s)\n", len(r.Drifts))
	for _, d := range r.Drifts {
		fmt.Fprintf(w, "  %s\n", d)
	}
}
