package oracle

import (
	"sort"
	"strings"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/outcome"
)

// Status summarizes a verdict.
type Status string

const (
	// StatusAgree means every backend produced the same outcome.
	StatusAgree Status = "agree"
	// StatusDisagree means at least two outcomes differ.
	StatusDisagree Status = "disagree"
	// StatusPartial means fewer than two backends produced an outcome.
	StatusPartial Status = "partial"
	// StatusFault means an adapter panicked or returned an invalid outcome.
	StatusFault Status = "fault"
)

// Entry is one backend's result for an input.
type Entry struct {
	Backend string          `json:"backend"`
	Outcome outcome.Outcome `json:"outcome,omitempty"`
	Native  *backend.Native `json:"native,omitempty"`
	Fault   string          `json:"fault,omitempty"`
}

// Faulted reports whether the adapter failed to produce an outcome.
func (e Entry) Faulted() bool {
	return e.Fault != ""
}

// Verdict is the result of one Evaluate call. Entries follow registration
// order. Agreement is true iff the non-faulted entries carry exactly one
// distinct outcome.
type Verdict struct {
	Entries   []Entry `json:"entries"`
	Agreement bool    `json:"agreement"`
}

func newVerdict(entries []Entry) Verdict {
	v := Verdict{Entries: entries}
	v.Agreement = len(v.Outcomes()) == 1
	return v
}

// Outcomes lists the distinct outcomes in taxonomy order.
func (v Verdict) Outcomes() []outcome.Outcome {
	var seen [8]bool
	for _, e := range v.Entries {
		if e.Faulted() || !e.Outcome.Valid() {
			continue
		}
		seen[e.Outcome] = true
	}
	var out []outcome.Outcome
	for _, o := range outcome.All() {
		if seen[o] {
			out = append(out, o)
		}
	}
	return out
}

// Groups maps each outcome to the backends that produced it.
func (v Verdict) Groups() map[outcome.Outcome][]string {
	groups := make(map[outcome.Outcome][]string)
	for _, e := range v.Entries {
		if e.Faulted() {
			continue
		}
		groups[e.Outcome] = append(groups[e.Outcome], e.Backend)
	}
	return groups
}

// Faults lists the backends that faulted.
func (v Verdict) Faults() []string {
	var out []string
	for _, e := range v.Entries {
		if e.Faulted() {
			out = append(out, e.Backend)
		}
	}
	return out
}

// Status classifies the verdict. Faults take precedence over coverage.
func (v Verdict) Status() Status {
	produced := 0
	for _, e := range v.Entries {
		if e.Faulted() {
			return StatusFault
		}
		produced++
	}
	switch {
	case produced < 2:
		return StatusPartial
	case v.Agreement:
		return StatusAgree
	default:
		return StatusDisagree
	}
}

// AcceptanceSplit reports whether one backend accepted the input while
// another rejected it.
func (v Verdict) AcceptanceSplit() bool {
	accepted, rejected := false, false
	for _, o := range v.Outcomes() {
		if o.Accepted() {
			accepted = true
		} else {
			rejected = true
		}
	}
	return accepted && rejected
}

// Lookup returns the entry for a backend.
func (v Verdict) Lookup(name string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.Backend == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Signature is a stable key of the form "a=ok,b=string_error" with backends
// sorted by name. Inputs that split the backends the same way share a
// signature.
func (v Verdict) Signature() string {
	parts := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		result := e.Outcome.String()
		if e.Faulted() {
			result = "fault"
		}
		parts = append(parts, e.Backend+"="+result)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
