package backend

import (
	"bytes"
	"io"
	"strings"

	"jsonoracle/internal/config"
	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"
)

type jsontextCode uint8

const (
	jsontextNone jsontextCode = iota
	jsontextEmpty
	jsontextTruncated
	jsontextTrailing
	jsontextDuplicateName
	jsontextNonStringName
	jsontextInvalidUTF8
	jsontextEscapeHex
	jsontextSurrogate
	jsontextEscape
	jsontextStringChar
	jsontextNameStart
	jsontextNumber
	jsontextValueStart
	jsontextAfterName
	jsontextAfterValue
	jsontextAfterElement
	jsontextLiteral
	jsontextDepth
	jsontextUnknown
	numJSONTextCodes
)

var jsontextCodeNames = [...]string{
	jsontextNone:          "none",
	jsontextEmpty:         "empty",
	jsontextTruncated:     "truncated",
	jsontextTrailing:      "trailing",
	jsontextDuplicateName: "duplicate_name",
	jsontextNonStringName: "non_string_name",
	jsontextInvalidUTF8:   "invalid_utf8",
	jsontextEscapeHex:     "escape_hex",
	jsontextSurrogate:     "surrogate",
	jsontextEscape:        "escape",
	jsontextStringChar:    "string_char",
	jsontextNameStart:     "name_start",
	jsontextNumber:        "number",
	jsontextValueStart:    "value_start",
	jsontextAfterName:     "after_name",
	jsontextAfterValue:    "after_value",
	jsontextAfterElement:  "after_element",
	jsontextLiteral:       "literal",
	jsontextDepth:         "depth",
	jsontextUnknown:       "unknown",
}

var _ = [1]struct{}{}[len(jsontextCodeNames)-int(numJSONTextCodes)]

func (c jsontextCode) String() string {
	if int(c) < len(jsontextCodeNames) {
		return jsontextCodeNames[c]
	}
	return "jsontext?"
}

var jsontextOutcomes = [...]outcome.Outcome{
	jsontextNone:          outcome.OK,
	jsontextEmpty:         outcome.OtherError,
	jsontextTruncated:     outcome.OtherError,
	jsontextTrailing:      outcome.OtherError,
	jsontextDuplicateName: outcome.OtherError,
	jsontextNonStringName: outcome.OtherError,
	jsontextInvalidUTF8:   outcome.EncodingError,
	jsontextEscapeHex:     outcome.EncodingError,
	jsontextSurrogate:     outcome.StringError,
	jsontextEscape:        outcome.StringError,
	jsontextStringChar:    outcome.StringError,
	jsontextNameStart:     outcome.OtherError,
	jsontextNumber:        outcome.NumberError,
	jsontextValueStart:    outcome.OtherError,
	jsontextAfterName:     outcome.OtherError,
	jsontextAfterValue:    outcome.OtherError,
	jsontextAfterElement:  outcome.OtherError,
	jsontextLiteral:       outcome.OtherError,
	jsontextDepth:         outcome.OtherError,
	jsontextUnknown:       outcome.OtherError,
}

var _ = [1]struct{}{}[len(jsontextOutcomes)-int(numJSONTextCodes)]

var jsontextTable = mapping.MustNew("jsontext", jsontextOutcomes[:], mapping.Codes(numJSONTextCodes))

var jsontextPhrases = []struct {
	phrase string
	code   jsontextCode
}{
	{"UTF-8", jsontextInvalidUTF8},
	{"surrogate", jsontextSurrogate},
	{" in string", jsontextStringChar},
	{"at start of string", jsontextNameStart},
	{"number", jsontextNumber},
	{"at start of value", jsontextValueStart},
	{"after object name", jsontextAfterName},
	{"after object value", jsontextAfterValue},
	{"after array element", jsontextAfterElement},
	{"literal", jsontextLiteral},
	{"exceeded max depth", jsontextDepth},
	{"after top-level value", jsontextTrailing},
}

// classifyJSONTextReason works on the inner error of a SyntacticError. The outer
// message carries a JSON pointer built from user keys, so it is never matched.
func classifyJSONTextReason(err error) jsontextCode {
	switch {
	case errors.Is(err, jsontext.ErrDuplicateName):
		return jsontextDuplicateName
	case errors.Is(err, jsontext.ErrNonStringName):
		return jsontextNonStringName
	case errors.Is(err, io.ErrUnexpectedEOF):
		return jsontextTruncated
	}
	msg := err.Error()
	if i := strings.Index(msg, "invalid escape sequence"); i >= 0 {
		return classifyEscape(msg[i:])
	}
	for _, p := range jsontextPhrases {
		if strings.Contains(msg, p.phrase) {
			return p.code
		}
	}
	return jsontextUnknown
}

// classifyEscape separates a bad \u escape whose digits are not hex from one
// whose digits are hex but name an unpaired surrogate. Both end in " in string",
// so escapes are split off before the phrase list is searched.
func classifyEscape(msg string) jsontextCode {
	i := strings.Index(msg, `\u`)
	if i < 0 {
		return jsontextEscape
	}
	digits := msg[i+2:]
	if len(digits) < 4 {
		return jsontextEscapeHex
	}
	for _, r := range digits[:4] {
		if !isHex(r) {
			return jsontextEscapeHex
		}
	}
	return jsontextSurrogate
}

func isHex(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func classifyJSONText(err error) jsontextCode {
	var syntaxErr *jsontext.SyntacticError
	if errors.As(err, &syntaxErr) && syntaxErr.Err != nil {
		return classifyJSONTextReason(syntaxErr.Err)
	}
	return classifyJSONTextReason(err)
}

// JSONText validates with the streaming decoder of go-json-experiment.
type JSONText struct {
	lastNative
	opts []jsontext.Options
}

// NewJSONText returns the jsontext adapter.
func NewJSONText(cfg config.JSONTextConfig) *JSONText {
	return &JSONText{opts: []jsontext.Options{
		jsontext.AllowDuplicateNames(cfg.AllowDuplicateNames),
		jsontext.AllowInvalidUTF8(cfg.AllowInvalidUTF8),
	}}
}

// Name implements Adapter.
func (j *JSONText) Name() string {
	return "jsontext"
}

// Parse implements Adapter. Exactly one top-level value is accepted.
func (j *JSONText) Parse(input []byte) outcome.Outcome {
	code, err := j.decode(input)
	j.record(code.String(), errText(err))
	return jsontextTable.Lookup(code)
}

func (j *JSONText) decode(input []byte) (jsontextCode, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(input), j.opts...)
	if _, err := dec.ReadValue(); err != nil {
		if err == io.EOF {
			return jsontextEmpty, err
		}
		return classifyJSONText(err), err
	}
	_, err := dec.ReadValue()
	switch {
	case err == io.EOF:
		return jsontextNone, nil
	case err == nil:
		return jsontextTrailing, errors.New("unexpected value after top-level value")
	default:
		return classifyJSONText(err), err
	}
}
