// Package mapping holds the per-backend tables that translate a backend's native
// error codes into outcome values.
//
// A table is built from a dense slice indexed by the native code. Construction
// audits the slice against the backend's declared code list: every declared code
// needs exactly one non-Unmapped entry and the slice may not carry entries for
// codes that were never declared. Lookups never return Unmapped; anything the
// table does not know classifies as outcome.OtherError.
package mapping

import (
	"fmt"
	"strings"

	"jsonoracle/internal/outcome"

	"github.com/pkg/errors"
)

// Code is a backend-native error code numbered densely from zero.
type Code interface {
	~uint8 | ~uint16
	String() string
}

// Entry is one row of a table, rendered for audits and reports.
type Entry struct {
	Code    string          `json:"code"`
	Outcome outcome.Outcome `json:"outcome"`
}

// Describer exposes a table without its code type.
type Describer interface {
	Backend() string
	Entries() []Entry
}

// AuditError reports an incomplete or inconsistent table.
type AuditError struct {
	Backend string
	Missing []string
	Extra   int
}

func (e *AuditError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if e.Extra > 0 {
		parts = append(parts, fmt.Sprintf("%d undeclared entries", e.Extra))
	}
	return fmt.Sprintf("mapping table %s: %s", e.Backend, strings.Join(parts, "; "))
}

// Table is a total function from a backend's native codes to outcomes.
type Table[C Code] struct {
	backend string
	codes   []C
	entries []outcome.Outcome
}

// New audits entries against the declared codes and returns the table.
func New[C Code](backend string, entries []outcome.Outcome, codes []C) (*Table[C], error) {
	if strings.TrimSpace(backend) == "" {
		return nil, errors.New("mapping table needs a backend name")
	}
	auditErr := &AuditError{Backend: backend}
	declared := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		idx := int(c)
		if _, dup := declared[idx]; dup {
			return nil, errors.Errorf("mapping table %s: code %s declared twice", backend, c)
		}
		declared[idx] = struct{}{}
		if idx >= len(entries) || !entries[idx].Valid() {
			auditErr.Missing = append(auditErr.Missing, c.String())
		}
	}
	for idx := range entries {
		if _, ok := declared[idx]; !ok {
			auditErr.Extra++
		}
	}
	if len(auditErr.Missing) > 0 || auditErr.Extra > 0 {
		return nil, auditErr
	}
	return &Table[C]{
		backend: backend,
		codes:   append([]C(nil), codes...),
		entries: append([]outcome.Outcome(nil), entries...),
	}, nil
}

// MustNew is New for package-level tables. An incomplete table is a broken
// harness, so it panics at init rather than misclassifying inputs later.
func MustNew[C Code](backend string, entries []outcome.Outcome, codes []C) *Table[C] {
	t, err := New(backend, entries, codes)
	if err != nil {
		panic(err)
	}
	return t
}

// Codes lists every code below n, for enums that end in a count sentinel.
func Codes[C Code](n C) []C {
	out := make([]C, 0, int(n))
	for c := C(0); c < n; c++ {
		out = append(out, c)
	}
	return out
}

// Backend returns the name of the backend the table belongs to.
func (t *Table[C]) Backend() string {
	return t.backend
}

// Lookup returns the outcome for a native code.
func (t *Table[C]) Lookup(c C) outcome.Outcome {
	idx := int(c)
	if idx >= len(t.entries) {
		return outcome.OtherError
	}
	if o := t.entries[idx]; o.Valid() {
		return o
	}
	return outcome.OtherError
}

// Entries lists the table in code order.
func (t *Table[C]) Entries() []Entry {
	out := make([]Entry, 0, len(t.codes))
	for _, c := range t.codes {
		out = append(out, Entry{Code: c.String(), Outcome: t.entries[int(c)]})
	}
	return out
}
