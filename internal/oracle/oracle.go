// Package oracle compares parser backends on the same input.
//
// An Oracle holds an ordered set of adapters. Evaluate hands every adapter its
// own copy of the input, collects one outcome per adapter, and reduces them to a
// Verdict. An Oracle and its adapters belong to one goroutine at a time; use
// one Oracle per worker.
package oracle

import (
	"bytes"
	"fmt"
	"strings"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/outcome"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type registered struct {
	name    string
	adapter backend.Adapter
}

// Oracle drives registered adapters and builds verdicts.
type Oracle struct {
	adapters []registered
	parallel bool
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithParallel runs the adapters of one Evaluate call concurrently. The
// verdict is the same either way.
func WithParallel(on bool) Option {
	return func(o *Oracle) {
		o.parallel = on
	}
}

// New returns an Oracle with no backends.
func New(opts ...Option) *Oracle {
	o := &Oracle{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register adds an adapter. Names must be unique; a rejected registration
// leaves the Oracle unchanged.
func (o *Oracle) Register(a backend.Adapter) error {
	if a == nil {
		return errors.New("register nil adapter")
	}
	name := strings.TrimSpace(a.Name())
	if name == "" {
		return errors.New("register adapter with empty name")
	}
	for _, r := range o.adapters {
		if r.name == name {
			return &DuplicateBackendError{Name: name}
		}
	}
	o.adapters = append(o.adapters, registered{name: name, adapter: a})
	return nil
}

// RegisterAll registers adapters in order and stops at the first error.
func (o *Oracle) RegisterAll(adapters []backend.Adapter) error {
	for _, a := range adapters {
		if err := o.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// Backends lists registered names in registration order.
func (o *Oracle) Backends() []string {
	names := make([]string, 0, len(o.adapters))
	for _, r := range o.adapters {
		names = append(names, r.name)
	}
	return names
}

// Adapters returns the registered adapters in registration order.
func (o *Oracle) Adapters() []backend.Adapter {
	out := make([]backend.Adapter, 0, len(o.adapters))
	for _, r := range o.adapters {
		out = append(out, r.adapter)
	}
	return out
}

// Evaluate parses input with every adapter exactly once.
func (o *Oracle) Evaluate(input []byte) Verdict {
	entries := make([]Entry, len(o.adapters))
	if o.parallel && len(o.adapters) > 1 {
		var g errgroup.Group
		for i, r := range o.adapters {
			g.Go(func() error {
				entries[i] = run(r, bytes.Clone(input))
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, r := range o.adapters {
			entries[i] = run(r, bytes.Clone(input))
		}
	}
	return newVerdict(entries)
}

// run isolates one adapter: a panic or an invalid outcome becomes a fault
// on its entry and never reaches the other adapters.
func run(r registered, input []byte) (e Entry) {
	e.Backend = r.name
	defer func() {
		if p := recover(); p != nil {
			e.Outcome = outcome.Unmapped
			e.Native = nil
			e.Fault = fmt.Sprintf("panic: %v", p)
		}
	}()
	got := r.adapter.Parse(input)
	if d, ok := r.adapter.(backend.Diagnoser); ok {
		native := d.LastNative()
		e.Native = &native
	}
	if !got.Valid() {
		e.Fault = fmt.Sprintf("invalid outcome %s", got)
		return e
	}
	e.Outcome = got
	return e
}
