package backend

import (
	"strings"

	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"
)

// mysqlCode covers the server's native error space. The first block mirrors
// rapidjson's ParseErrorCode, which MySQL embeds in its invalid JSON errors.
// The last block names the scanner reasons TiDB puts in the same errors.
type mysqlCode uint8

const (
	rapidjsonNone mysqlCode = iota
	rapidjsonDocumentEmpty
	rapidjsonDocumentRootNotSingular
	rapidjsonValueInvalid
	rapidjsonObjectMissName
	rapidjsonObjectMissColon
	rapidjsonObjectMissCommaOrCurlyBracket
	rapidjsonArrayMissCommaOrSquareBracket
	rapidjsonStringUnicodeEscapeInvalidHex
	rapidjsonStringUnicodeSurrogateInvalid
	rapidjsonStringEscapeInvalid
	rapidjsonStringMissQuotationMark
	rapidjsonStringInvalidEncoding
	rapidjsonNumberTooBig
	rapidjsonNumberMissFraction
	rapidjsonNumberMissExponent
	rapidjsonTermination
	rapidjsonUnspecificSyntaxError
	mysqlCharset
	mysqlInvalidString
	mysqlDepth
	mysqlNullResult
	mysqlServerOther
	mysqlTransport
	tidbUnexpectedEnd
	tidbValueStart
	tidbKeyStart
	tidbAfterKey
	tidbAfterMember
	tidbAfterElement
	tidbTrailing
	tidbStringChar
	tidbStringEscape
	tidbUnicodeHex
	tidbNumberDigit
	tidbNumberFraction
	tidbNumberExponent
	tidbLiteral
	tidbDepth
	numMySQLCodes
)

// numRapidJSONCodes marks the end of the rapidjson block.
const numRapidJSONCodes = mysqlCharset

var mysqlCodeNames = [...]string{
	rapidjsonNone:                          "kParseErrorNone",
	rapidjsonDocumentEmpty:                 "kParseErrorDocumentEmpty",
	rapidjsonDocumentRootNotSingular:       "kParseErrorDocumentRootNotSingular",
	rapidjsonValueInvalid:                  "kParseErrorValueInvalid",
	rapidjsonObjectMissName:                "kParseErrorObjectMissName",
	rapidjsonObjectMissColon:               "kParseErrorObjectMissColon",
	rapidjsonObjectMissCommaOrCurlyBracket: "kParseErrorObjectMissCommaOrCurlyBracket",
	rapidjsonArrayMissCommaOrSquareBracket: "kParseErrorArrayMissCommaOrSquareBracket",
	rapidjsonStringUnicodeEscapeInvalidHex: "kParseErrorStringUnicodeEscapeInvalidHex",
	rapidjsonStringUnicodeSurrogateInvalid: "kParseErrorStringUnicodeSurrogateInvalid",
	rapidjsonStringEscapeInvalid:           "kParseErrorStringEscapeInvalid",
	rapidjsonStringMissQuotationMark:       "kParseErrorStringMissQuotationMark",
	rapidjsonStringInvalidEncoding:         "kParseErrorStringInvalidEncoding",
	rapidjsonNumberTooBig:                  "kParseErrorNumberTooBig",
	rapidjsonNumberMissFraction:            "kParseErrorNumberMissFraction",
	rapidjsonNumberMissExponent:            "kParseErrorNumberMissExponent",
	rapidjsonTermination:                   "kParseErrorTermination",
	rapidjsonUnspecificSyntaxError:         "kParseErrorUnspecificSyntaxError",
	mysqlCharset:                           "ER_INVALID_JSON_CHARSET",
	mysqlInvalidString:                     "ER_INVALID_CHARACTER_STRING",
	mysqlDepth:                             "ER_JSON_DOCUMENT_TOO_DEEP",
	mysqlNullResult:                        "null_result",
	mysqlServerOther:                       "server_other",
	mysqlTransport:                         "transport",
	tidbUnexpectedEnd:                      "tidb_unexpected_end",
	tidbValueStart:                         "tidb_value_start",
	tidbKeyStart:                           "tidb_key_start",
	tidbAfterKey:                           "tidb_after_key",
	tidbAfterMember:                        "tidb_after_member",
	tidbAfterElement:                       "tidb_after_element",
	tidbTrailing:                           "tidb_trailing",
	tidbStringChar:                         "tidb_string_char",
	tidbStringEscape:                       "tidb_string_escape",
	tidbUnicodeHex:                         "tidb_unicode_hex",
	tidbNumberDigit:                        "tidb_number_digit",
	tidbNumberFraction:                     "tidb_number_fraction",
	tidbNumberExponent:                     "tidb_number_exponent",
	tidbLiteral:                            "tidb_literal",
	tidbDepth:                              "tidb_depth",
}

var _ = [1]struct{}{}[len(mysqlCodeNames)-int(numMySQLCodes)]

func (c mysqlCode) String() string {
	if int(c) < len(mysqlCodeNames) {
		return mysqlCodeNames[c]
	}
	return "mysql?"
}

var mysqlOutcomes = [...]outcome.Outcome{
	rapidjsonNone:                          outcome.OK,
	rapidjsonDocumentEmpty:                 outcome.OtherError,
	rapidjsonDocumentRootNotSingular:       outcome.OtherError,
	rapidjsonValueInvalid:                  outcome.OtherError,
	rapidjsonObjectMissName:                outcome.OtherError,
	rapidjsonObjectMissColon:               outcome.OtherError,
	rapidjsonObjectMissCommaOrCurlyBracket: outcome.OtherError,
	rapidjsonArrayMissCommaOrSquareBracket: outcome.OtherError,
	rapidjsonStringUnicodeEscapeInvalidHex: outcome.EncodingError,
	rapidjsonStringUnicodeSurrogateInvalid: outcome.StringError,
	rapidjsonStringEscapeInvalid:           outcome.StringError,
	rapidjsonStringMissQuotationMark:       outcome.StringError,
	rapidjsonStringInvalidEncoding:         outcome.StringError,
	rapidjsonNumberTooBig:                  outcome.NumberError,
	rapidjsonNumberMissFraction:            outcome.NumberError,
	rapidjsonNumberMissExponent:            outcome.NumberError,
	rapidjsonTermination:                   outcome.OtherError,
	rapidjsonUnspecificSyntaxError:         outcome.OtherError,
	mysqlCharset:                           outcome.EncodingError,
	mysqlInvalidString:                     outcome.EncodingError,
	mysqlDepth:                             outcome.OtherError,
	mysqlNullResult:                        outcome.OtherError,
	mysqlServerOther:                       outcome.OtherError,
	mysqlTransport:                         outcome.OtherError,
	tidbUnexpectedEnd:                      outcome.OtherError,
	tidbValueStart:                         outcome.OtherError,
	tidbKeyStart:                           outcome.OtherError,
	tidbAfterKey:                           outcome.OtherError,
	tidbAfterMember:                        outcome.OtherError,
	tidbAfterElement:                       outcome.OtherError,
	tidbTrailing:                           outcome.OtherError,
	tidbStringChar:                         outcome.StringError,
	tidbStringEscape:                       outcome.StringError,
	tidbUnicodeHex:                         outcome.EncodingError,
	tidbNumberDigit:                        outcome.NumberError,
	tidbNumberFraction:                     outcome.NumberError,
	tidbNumberExponent:                     outcome.NumberError,
	tidbLiteral:                            outcome.OtherError,
	tidbDepth:                              outcome.OtherError,
}

var _ = [1]struct{}{}[len(mysqlOutcomes)-int(numMySQLCodes)]

var mysqlTable = mapping.MustNew("mysql", mysqlOutcomes[:], mapping.Codes(numMySQLCodes))

// rapidjsonMessages are rapidjson's English parse error strings without the
// final period, indexed by code.
var rapidjsonMessages = [...]string{
	rapidjsonNone:                          "No error",
	rapidjsonDocumentEmpty:                 "The document is empty",
	rapidjsonDocumentRootNotSingular:       "The document root must not be followed by other values",
	rapidjsonValueInvalid:                  "Invalid value",
	rapidjsonObjectMissName:                "Missing a name for object member",
	rapidjsonObjectMissColon:               "Missing a colon after a name of object member",
	rapidjsonObjectMissCommaOrCurlyBracket: "Missing a comma or '}' after an object member",
	rapidjsonArrayMissCommaOrSquareBracket: "Missing a comma or ']' after an array element",
	rapidjsonStringUnicodeEscapeInvalidHex: "Incorrect hex digit after \\u escape in string",
	rapidjsonStringUnicodeSurrogateInvalid: "The surrogate pair in string is invalid",
	rapidjsonStringEscapeInvalid:           "Invalid escape character in string",
	rapidjsonStringMissQuotationMark:       "Missing a closing quotation mark in string",
	rapidjsonStringInvalidEncoding:         "Invalid encoding in string",
	rapidjsonNumberTooBig:                  "Number too big to be stored in double",
	rapidjsonNumberMissFraction:            "Miss fraction part in number",
	rapidjsonNumberMissExponent:            "Miss exponent in number",
	rapidjsonTermination:                   "Terminate parsing due to Handler error",
	rapidjsonUnspecificSyntaxError:         "Unspecific syntax error",
}

var _ = [1]struct{}{}[len(rapidjsonMessages)-int(numRapidJSONCodes)]

// rapidjsonCodeOf matches a reason string against rapidjson's messages.
func rapidjsonCodeOf(reason string) (mysqlCode, bool) {
	reason = strings.TrimSuffix(strings.TrimSpace(reason), ".")
	for code, msg := range rapidjsonMessages {
		if strings.EqualFold(reason, msg) {
			return mysqlCode(code), true
		}
	}
	return 0, false
}
