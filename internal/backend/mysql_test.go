package backend

import (
	"context"
	"database/sql"
	"testing"

	"jsonoracle/internal/config"
	"jsonoracle/internal/outcome"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

type fakeCaster struct {
	res  sql.NullString
	err  error
	seen []string
}

func (f *fakeCaster) CastJSON(_ context.Context, text string) (sql.NullString, error) {
	f.seen = append(f.seen, text)
	return f.res, f.err
}

func newFakeMySQL(res sql.NullString, err error) (*MySQL, *fakeCaster) {
	caster := &fakeCaster{res: res, err: err}
	return &MySQL{caster: caster}, caster
}

func TestMySQLRapidJSONReasons(t *testing.T) {
	cases := []struct {
		msg  string
		want outcome.Outcome
		code string
	}{
		{`Invalid JSON text in argument 1 to function cast_as_json: "Invalid value." at position 5.`, outcome.OtherError, "kParseErrorValueInvalid"},
		{`Invalid JSON text in argument 1 to function cast_as_json: "Incorrect hex digit after \u escape in string." at position 8.`, outcome.EncodingError, "kParseErrorStringUnicodeEscapeInvalidHex"},
		{`Invalid JSON text in argument 1 to function cast_as_json: "Miss exponent in number." at position 7.`, outcome.NumberError, "kParseErrorNumberMissExponent"},
		{`Invalid JSON text in argument 1 to function cast_as_json: "The document is empty." at position 0.`, outcome.OtherError, "kParseErrorDocumentEmpty"},
		{`Invalid JSON text: "The surrogate pair in string is invalid." at position 3 in value for column 't.c'.`, outcome.StringError, "kParseErrorStringUnicodeSurrogateInvalid"},
	}
	for _, c := range cases {
		m, _ := newFakeMySQL(sql.NullString{}, &mysql.MySQLError{Number: errInvalidJSONTextInParam, Message: c.msg})
		if got := m.Parse([]byte("x")); got != c.want {
			t.Fatalf("%q -> %s, want %s", c.msg, got, c.want)
		}
		if native := m.LastNative(); native.Code != c.code {
			t.Fatalf("%q -> native %q, want %q", c.msg, native.Code, c.code)
		}
	}
}

func TestMySQLTiDBReasons(t *testing.T) {
	known := map[string]bool{}
	for _, e := range mysqlTable.Entries() {
		known[e.Code] = true
	}
	cases := []struct {
		msg  string
		want outcome.Outcome
		code string
	}{
		{`Invalid JSON text: invalid character 'Z' in \u hexadecimal character escape`, outcome.EncodingError, "tidb_unicode_hex"},
		{`Invalid JSON text: invalid character '}' in exponent of numeric literal`, outcome.NumberError, "tidb_number_exponent"},
		{`Invalid JSON text: invalid character '\t' in string literal`, outcome.StringError, "tidb_string_char"},
		{`Invalid JSON text: invalid character 'q' in string escape code`, outcome.StringError, "tidb_string_escape"},
		{`Invalid JSON text: invalid character '1' looking for beginning of object key string`, outcome.OtherError, "tidb_key_start"},
		{`Invalid JSON text: unexpected end of JSON input`, outcome.OtherError, "tidb_unexpected_end"},
		{`Invalid JSON text: invalid character 'x' after top-level value`, outcome.OtherError, "tidb_trailing"},
	}
	for _, c := range cases {
		m, _ := newFakeMySQL(sql.NullString{}, &mysql.MySQLError{Number: errInvalidJSONText, Message: c.msg})
		if got := m.Parse([]byte("x")); got != c.want {
			t.Fatalf("%q -> %s, want %s", c.msg, got, c.want)
		}
		native := m.LastNative()
		if native.Code != c.code {
			t.Fatalf("%q -> native %q, want %q", c.msg, native.Code, c.code)
		}
		if !known[native.Code] {
			t.Fatalf("native %q is not in the mysql table", native.Code)
		}
	}
}

func TestMySQLUnmatchedReasonIsServerOther(t *testing.T) {
	m, _ := newFakeMySQL(sql.NullString{}, &mysql.MySQLError{Number: errInvalidJSONText, Message: `Invalid JSON text: something new`})
	if got := m.Parse([]byte("x")); got != outcome.OtherError {
		t.Fatalf("got %s, want other_error", got)
	}
	if native := m.LastNative(); native.Code != "server_other" {
		t.Fatalf("unexpected native: %+v", native)
	}
}

func TestMySQLServerErrors(t *testing.T) {
	cases := []struct {
		number uint16
		want   outcome.Outcome
	}{
		{errInvalidJSONCharset, outcome.EncodingError},
		{errInvalidCharacterString, outcome.EncodingError},
		{errIncorrectStringValue, outcome.EncodingError},
		{errJSONDocumentTooDeep, outcome.OtherError},
		{1105, outcome.OtherError},
	}
	for _, c := range cases {
		m, _ := newFakeMySQL(sql.NullString{}, &mysql.MySQLError{Number: c.number, Message: "server says no"})
		if got := m.Parse([]byte("[]")); got != c.want {
			t.Fatalf("error %d -> %s, want %s", c.number, got, c.want)
		}
	}
}

func TestMySQLSuccessAndTransport(t *testing.T) {
	m, caster := newFakeMySQL(sql.NullString{String: `{"a": 1}`, Valid: true}, nil)
	if got := m.Parse([]byte(`{"a":1}`)); got != outcome.OK {
		t.Fatalf("got %s, want ok", got)
	}
	if len(caster.seen) != 1 || caster.seen[0] != `{"a":1}` {
		t.Fatalf("unexpected text sent: %v", caster.seen)
	}

	m, _ = newFakeMySQL(sql.NullString{}, nil)
	if got := m.Parse([]byte(`"x"`)); got != outcome.OtherError {
		t.Fatalf("null result -> %s, want other_error", got)
	}
	if native := m.LastNative(); native.Code != "null_result" {
		t.Fatalf("null result not recorded: %+v", native)
	}

	m, _ = newFakeMySQL(sql.NullString{}, errors.New("dial tcp 127.0.0.1:4000: connect: connection refused"))
	if got := m.Parse([]byte(`{}`)); got != outcome.OtherError {
		t.Fatalf("transport -> %s, want other_error", got)
	}
	if native := m.LastNative(); native.Code != "transport" || native.Detail == "" {
		t.Fatalf("transport fault not recorded: %+v", native)
	}
}

func TestInvalidJSONReason(t *testing.T) {
	cases := map[string]string{
		`Invalid JSON text: "Invalid value." at position 0 in value for column 'x'.`: "Invalid value.",
		`Invalid JSON text: invalid character '"' after object key`:               `invalid character '"' after object key`,
		`something else`: "something else",
	}
	for msg, want := range cases {
		if got := invalidJSONReason(msg); got != want {
			t.Fatalf("%q -> %q, want %q", msg, got, want)
		}
	}
}

func TestRapidJSONCodeOfEveryMessage(t *testing.T) {
	for code, msg := range rapidjsonMessages {
		got, ok := rapidjsonCodeOf(msg + ".")
		if !ok || got != mysqlCode(code) {
			t.Fatalf("%q -> %s,%v want %s", msg, got, ok, mysqlCode(code))
		}
	}
}

func TestNewMySQLDoesNotConnect(t *testing.T) {
	m, err := NewMySQL(config.MySQLConfig{DSN: "root:@tcp(127.0.0.1:1)/", TimeoutMs: 10, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("new mysql: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
