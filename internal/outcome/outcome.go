// Package outcome defines the closed set of parse-result categories that every
// backend result is reduced to before comparison.
package outcome

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Outcome classifies a single parse attempt.
type Outcome uint8

const (
	// Unmapped is the zero value. No mapping table lookup returns it; it only
	// marks a table slot that was never filled in.
	Unmapped Outcome = iota
	// OK means the input was accepted as valid JSON.
	OK
	// StringError covers malformed string content: bad escapes, unterminated
	// strings, invalid surrogate pairs.
	StringError
	// NumberError covers malformed numeric literals and overflow.
	NumberError
	// EncodingError covers invalid text encoding at the byte level, including
	// escapes that cannot be translated to a code point.
	EncodingError
	// OtherError covers every structural or syntactic failure not listed above.
	OtherError

	numOutcomes
)

var names = [...]string{
	Unmapped:      "unmapped",
	OK:            "ok",
	StringError:   "string_error",
	NumberError:   "number_error",
	EncodingError: "encoding_error",
	OtherError:    "other_error",
}

var _ = [1]struct{}{}[len(names)-int(numOutcomes)]

// All returns the taxonomy in declaration order, without Unmapped.
func All() []Outcome {
	out := make([]Outcome, 0, numOutcomes-1)
	for o := OK; o < numOutcomes; o++ {
		out = append(out, o)
	}
	return out
}

// String returns the snake_case name of the outcome.
func (o Outcome) String() string {
	if o < numOutcomes {
		return names[o]
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// Valid reports whether o is one of the taxonomy values.
func (o Outcome) Valid() bool {
	return o > Unmapped && o < numOutcomes
}

// Accepted reports whether o means the backend accepted the input.
func (o Outcome) Accepted() bool {
	return o == OK
}

// Parse resolves a taxonomy name back to its value.
func Parse(name string) (Outcome, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for o := OK; o < numOutcomes; o++ {
		if names[o] == name {
			return o, nil
		}
	}
	return Unmapped, errors.Errorf("unknown outcome %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, errors.Errorf("cannot marshal %s", o)
	}
	return []byte(names[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
