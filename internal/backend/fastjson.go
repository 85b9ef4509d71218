package backend

import (
	"strings"

	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"

	"github.com/valyala/fastjson"
)

// fastjsonCode is the innermost validator complaint.
type fastjsonCode uint8

const (
	fastjsonNone fastjsonCode = iota
	fastjsonEmpty
	fastjsonTrailing
	fastjsonValue
	fastjsonHexEscape
	fastjsonEscape
	fastjsonControlChar
	fastjsonUnterminated
	fastjsonValueStart
	fastjsonNumber
	fastjsonObject
	fastjsonArray
	fastjsonUnknown
	numFastJSONCodes
)

var fastjsonCodeNames = [...]string{
	fastjsonNone:         "none",
	fastjsonEmpty:        "empty",
	fastjsonTrailing:     "trailing",
	fastjsonValue:        "value",
	fastjsonHexEscape:    "hex_escape",
	fastjsonEscape:       "escape",
	fastjsonControlChar:  "control_char",
	fastjsonUnterminated: "unterminated",
	fastjsonValueStart:   "value_start",
	fastjsonNumber:       "number",
	fastjsonObject:       "object",
	fastjsonArray:        "array",
	fastjsonUnknown:      "unknown",
}

var _ = [1]struct{}{}[len(fastjsonCodeNames)-int(numFastJSONCodes)]

func (c fastjsonCode) String() string {
	if int(c) < len(fastjsonCodeNames) {
		return fastjsonCodeNames[c]
	}
	return "fastjson?"
}

var fastjsonOutcomes = [...]outcome.Outcome{
	fastjsonNone:         outcome.OK,
	fastjsonEmpty:        outcome.OtherError,
	fastjsonTrailing:     outcome.OtherError,
	fastjsonValue:        outcome.OtherError,
	fastjsonHexEscape:    outcome.EncodingError,
	fastjsonEscape:       outcome.StringError,
	fastjsonControlChar:  outcome.StringError,
	fastjsonUnterminated: outcome.StringError,
	fastjsonValueStart:   outcome.OtherError,
	fastjsonNumber:       outcome.NumberError,
	fastjsonObject:       outcome.OtherError,
	fastjsonArray:        outcome.OtherError,
	fastjsonUnknown:      outcome.OtherError,
}

var _ = [1]struct{}{}[len(fastjsonOutcomes)-int(numFastJSONCodes)]

var fastjsonTable = mapping.MustNew("fastjson", fastjsonOutcomes[:], mapping.Codes(numFastJSONCodes))

// fastjsonPhrases is searched in order against the message with its
// "unparsed tail" suffix removed.
var fastjsonPhrases = []struct {
	phrase string
	code   fastjsonCode
}{
	{"unexpected tail", fastjsonTrailing},
	{"cannot parse empty string", fastjsonEmpty},
	{"unexpected value found", fastjsonValue},
	{`invalid escape sequence \u`, fastjsonHexEscape},
	{"too short escape sequence", fastjsonHexEscape},
	{"unknown escape sequence", fastjsonEscape},
	{"missing escaped char", fastjsonEscape},
	{"control char", fastjsonControlChar},
	{`missing closing '"'`, fastjsonUnterminated},
	{"expecting 0..9 digit, got", fastjsonValueStart},
	{"zero-length number", fastjsonValueStart},
	{"cannot parse number", fastjsonNumber},
	{"cannot parse object", fastjsonObject},
	{"missing '}'", fastjsonObject},
	{"cannot parse array", fastjsonArray},
	{"missing ']'", fastjsonArray},
}

func classifyFastJSON(err error) fastjsonCode {
	if err == nil {
		return fastjsonNone
	}
	msg, _, _ := strings.Cut(err.Error(), "; unparsed tail: ")
	for _, p := range fastjsonPhrases {
		if strings.Contains(msg, p.phrase) {
			return p.code
		}
	}
	return fastjsonUnknown
}

// FastJSON validates with valyala/fastjson without building a value tree.
type FastJSON struct {
	lastNative
}

// NewFastJSON returns the fastjson adapter.
func NewFastJSON() *FastJSON {
	return &FastJSON{}
}

// Name implements Adapter.
func (f *FastJSON) Name() string {
	return "fastjson"
}

// Parse implements Adapter.
func (f *FastJSON) Parse(input []byte) outcome.Outcome {
	err := fastjson.ValidateBytes(input)
	code := classifyFastJSON(err)
	f.record(code.String(), errText(err))
	return fastjsonTable.Lookup(code)
}
