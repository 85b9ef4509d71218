package backend

import (
	"strconv"
	"strings"

	"jsonoracle/internal/config"
	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// jsoniterCode is the iterator operation that reported the failure.
type jsoniterCode uint8

const (
	jsoniterNone jsoniterCode = iota
	jsoniterValue
	jsoniterObject
	jsoniterArray
	jsoniterTrailing
	jsoniterLiteral
	jsoniterString
	jsoniterEscape
	jsoniterHex
	jsoniterNumber
	jsoniterNumberSyntax
	jsoniterNumberRange
	jsoniterDepth
	jsoniterUnknown
	numJSONIterCodes
)

var jsoniterCodeNames = [...]string{
	jsoniterNone:         "none",
	jsoniterValue:        "value",
	jsoniterObject:       "object",
	jsoniterArray:        "array",
	jsoniterTrailing:     "trailing",
	jsoniterLiteral:      "literal",
	jsoniterString:       "string",
	jsoniterEscape:       "escape",
	jsoniterHex:          "hex",
	jsoniterNumber:       "number",
	jsoniterNumberSyntax: "number_syntax",
	jsoniterNumberRange:  "number_range",
	jsoniterDepth:        "depth",
	jsoniterUnknown:      "unknown",
}

var _ = [1]struct{}{}[len(jsoniterCodeNames)-int(numJSONIterCodes)]

func (c jsoniterCode) String() string {
	if int(c) < len(jsoniterCodeNames) {
		return jsoniterCodeNames[c]
	}
	return "jsoniter?"
}

var jsoniterOutcomes = [...]outcome.Outcome{
	jsoniterNone:         outcome.OK,
	jsoniterValue:        outcome.OtherError,
	jsoniterObject:       outcome.OtherError,
	jsoniterArray:        outcome.OtherError,
	jsoniterTrailing:     outcome.OtherError,
	jsoniterLiteral:      outcome.OtherError,
	jsoniterString:       outcome.StringError,
	jsoniterEscape:       outcome.StringError,
	jsoniterHex:          outcome.EncodingError,
	jsoniterNumber:       outcome.NumberError,
	jsoniterNumberSyntax: outcome.NumberError,
	jsoniterNumberRange:  outcome.NumberError,
	jsoniterDepth:        outcome.OtherError,
	jsoniterUnknown:      outcome.OtherError,
}

var _ = [1]struct{}{}[len(jsoniterOutcomes)-int(numJSONIterCodes)]

var jsoniterTable = mapping.MustNew("jsoniter", jsoniterOutcomes[:], mapping.Codes(numJSONIterCodes))

// jsoniterOps maps the operation prefix of an iterator error.
var jsoniterOps = map[string]jsoniterCode{
	"Read":                jsoniterValue,
	"ReadVal":             jsoniterValue,
	"ReadMapCB":           jsoniterObject,
	"ReadObjectCB":        jsoniterObject,
	"readObjectStart":     jsoniterObject,
	"readFieldHash":       jsoniterObject,
	"ReadArrayCB":         jsoniterArray,
	"Unmarshal":           jsoniterTrailing,
	"skipThreeBytes":      jsoniterLiteral,
	"skipFourBytes":       jsoniterLiteral,
	"ReadBool":            jsoniterLiteral,
	"ReadNil":             jsoniterLiteral,
	"ReadString":          jsoniterString,
	"readStringSlowPath":  jsoniterString,
	"readEscapedChar":     jsoniterEscape,
	"readU4":              jsoniterHex,
	"readFloat64":         jsoniterNumber,
	"readFloat64SlowPath": jsoniterNumber,
	"readNumberAsString":  jsoniterNumber,
	"ReadFloat64":         jsoniterNumber,
	"ReadNumber":          jsoniterNumber,
	"incrementDepth":      jsoniterDepth,
}

func classifyJSONIter(err error) jsoniterCode {
	if err == nil {
		return jsoniterNone
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if errors.Is(numErr.Err, strconv.ErrRange) {
			return jsoniterNumberRange
		}
		return jsoniterNumberSyntax
	}
	msg := err.Error()
	op, _, ok := strings.Cut(msg, ":")
	if !ok {
		return jsoniterUnknown
	}
	if code, ok := jsoniterOps[strings.TrimSpace(op)]; ok {
		return code
	}
	return jsoniterUnknown
}

// JSONIter decodes with json-iterator into an empty interface.
type JSONIter struct {
	lastNative
	api jsoniter.API
}

// NewJSONIter returns the json-iterator adapter. The frozen config is built
// once; it is safe to share but each adapter keeps its own.
func NewJSONIter(cfg config.JSONIterConfig) *JSONIter {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              cfg.UseNumber,
	}.Froze()
	return &JSONIter{api: api}
}

// Name implements Adapter.
func (j *JSONIter) Name() string {
	return "jsoniter"
}

// Parse implements Adapter.
func (j *JSONIter) Parse(input []byte) outcome.Outcome {
	var v any
	err := j.api.Unmarshal(input, &v)
	code := classifyJSONIter(err)
	j.record(code.String(), errText(err))
	return jsoniterTable.Lookup(code)
}
