// Package backend wraps third-party JSON parsers behind a single contract.
//
// Every adapter owns a mapping table from its parser's native error space to
// outcome values. Native errors never cross Parse: they are classified into a
// native code, the code is looked up, and the raw result is kept only for
// diagnostics.
package backend

import (
	"io"

	"jsonoracle/internal/outcome"
	"jsonoracle/internal/util"
)

// Adapter is one parser under test.
type Adapter interface {
	// Name is the stable identity used in verdicts and reports.
	Name() string
	// Parse runs the parser over exactly input and classifies the result.
	Parse(input []byte) outcome.Outcome
}

// Native is the raw result of the most recent Parse, for reporting only.
type Native struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Diagnoser is implemented by adapters that remember their last native result.
type Diagnoser interface {
	LastNative() Native
}

// lastNative is embedded by adapters to satisfy Diagnoser. It is reset on
// every Parse so a previous input never shows through.
type lastNative struct {
	native Native
}

func (l *lastNative) LastNative() Native {
	return l.native
}

func (l *lastNative) record(code, detail string) {
	l.native = Native{Code: code, Detail: detail}
}

// CloseAll releases adapters that hold external resources.
func CloseAll(adapters []Adapter) {
	for _, a := range adapters {
		if c, ok := a.(io.Closer); ok {
			util.CloseWithErr(c, a.Name())
		}
	}
}
