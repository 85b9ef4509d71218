package backend

import (
	"encoding/json"
	"strings"

	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"

	"github.com/pkg/errors"
)

// stdlibCode is the failing scanner context reported by encoding/json.
type stdlibCode uint8

const (
	stdlibNone stdlibCode = iota
	stdlibUnexpectedEnd
	stdlibValueStart
	stdlibKeyStart
	stdlibAfterKey
	stdlibAfterMember
	stdlibAfterElement
	stdlibTrailing
	stdlibStringChar
	stdlibStringEscape
	stdlibUnicodeHex
	stdlibNumberDigit
	stdlibNumberFraction
	stdlibNumberExponent
	stdlibNumberRange
	stdlibLiteral
	stdlibDepth
	stdlibUnknown
	numStdlibCodes
)

var stdlibCodeNames = [...]string{
	stdlibNone:           "none",
	stdlibUnexpectedEnd:  "unexpected_end",
	stdlibValueStart:     "value_start",
	stdlibKeyStart:       "key_start",
	stdlibAfterKey:       "after_key",
	stdlibAfterMember:    "after_member",
	stdlibAfterElement:   "after_element",
	stdlibTrailing:       "trailing",
	stdlibStringChar:     "string_char",
	stdlibStringEscape:   "string_escape",
	stdlibUnicodeHex:     "unicode_hex",
	stdlibNumberDigit:    "number_digit",
	stdlibNumberFraction: "number_fraction",
	stdlibNumberExponent: "number_exponent",
	stdlibNumberRange:    "number_range",
	stdlibLiteral:        "literal",
	stdlibDepth:          "depth",
	stdlibUnknown:        "unknown",
}

var _ = [1]struct{}{}[len(stdlibCodeNames)-int(numStdlibCodes)]

func (c stdlibCode) String() string {
	if int(c) < len(stdlibCodeNames) {
		return stdlibCodeNames[c]
	}
	return "stdlib?"
}

var stdlibOutcomes = [...]outcome.Outcome{
	stdlibNone:           outcome.OK,
	stdlibUnexpectedEnd:  outcome.OtherError,
	stdlibValueStart:     outcome.OtherError,
	stdlibKeyStart:       outcome.OtherError,
	stdlibAfterKey:       outcome.OtherError,
	stdlibAfterMember:    outcome.OtherError,
	stdlibAfterElement:   outcome.OtherError,
	stdlibTrailing:       outcome.OtherError,
	stdlibStringChar:     outcome.StringError,
	stdlibStringEscape:   outcome.StringError,
	stdlibUnicodeHex:     outcome.EncodingError,
	stdlibNumberDigit:    outcome.NumberError,
	stdlibNumberFraction: outcome.NumberError,
	stdlibNumberExponent: outcome.NumberError,
	stdlibNumberRange:    outcome.NumberError,
	stdlibLiteral:        outcome.OtherError,
	stdlibDepth:          outcome.OtherError,
	stdlibUnknown:        outcome.OtherError,
}

var _ = [1]struct{}{}[len(stdlibOutcomes)-int(numStdlibCodes)]

var stdlibTable = mapping.MustNew("stdlib", stdlibOutcomes[:], mapping.Codes(numStdlibCodes))

// stdlibPhrases is searched in order; a longer phrase must precede any phrase
// it contains.
var stdlibPhrases = []struct {
	phrase string
	code   stdlibCode
}{
	{"unexpected end of JSON input", stdlibUnexpectedEnd},
	{"looking for beginning of object key string", stdlibKeyStart},
	{"looking for beginning of value", stdlibValueStart},
	{"after object key:value pair", stdlibAfterMember},
	{"after object key", stdlibAfterKey},
	{"after array element", stdlibAfterElement},
	{"after top-level value", stdlibTrailing},
	{"in \\u hexadecimal character escape", stdlibUnicodeHex},
	{"in string escape code", stdlibStringEscape},
	{"in string literal", stdlibStringChar},
	{"after decimal point in numeric literal", stdlibNumberFraction},
	{"in exponent of numeric literal", stdlibNumberExponent},
	{"in numeric literal", stdlibNumberDigit},
	{"in literal ", stdlibLiteral},
	{"exceeded max depth", stdlibDepth},
}

// classifyStdlibMessage maps an encoding/json scanner message to its code.
func classifyStdlibMessage(msg string) stdlibCode {
	for _, p := range stdlibPhrases {
		if strings.Contains(msg, p.phrase) {
			return p.code
		}
	}
	return stdlibUnknown
}

func classifyStdlib(err error) stdlibCode {
	if err == nil {
		return stdlibNone
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Value, "number") {
		return stdlibNumberRange
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return classifyStdlibMessage(syntaxErr.Error())
	}
	return classifyStdlibMessage(err.Error())
}

// Stdlib decodes with encoding/json into an empty interface.
type Stdlib struct {
	lastNative
}

// NewStdlib returns the encoding/json adapter.
func NewStdlib() *Stdlib {
	return &Stdlib{}
}

// Name implements Adapter.
func (s *Stdlib) Name() string {
	return "stdlib"
}

// Parse implements Adapter.
func (s *Stdlib) Parse(input []byte) outcome.Outcome {
	var v any
	err := json.Unmarshal(input, &v)
	code := classifyStdlib(err)
	s.record(code.String(), errText(err))
	return stdlibTable.Lookup(code)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
