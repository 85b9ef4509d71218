package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jsonoracle/internal/config"
	"jsonoracle/internal/db"
	"jsonoracle/internal/outcome"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// Server error numbers the adapter understands.
// 3140 and 3141 carry the parser's own message in quotes.
// 3144 is raised for a document that is not utf8mb4.
// 1300 and 1366 reject byte sequences invalid in the connection charset.
// 3157 is the nesting limit.
const (
	errInvalidJSONText        = 3140
	errInvalidJSONTextInParam = 3141
	errInvalidJSONCharset     = 3144
	errInvalidCharacterString = 1300
	errIncorrectStringValue   = 1366
	errJSONDocumentTooDeep    = 3157
)

// jsonCaster asks a server to parse text as a JSON document.
type jsonCaster interface {
	CastJSON(ctx context.Context, text string) (sql.NullString, error)
}

type serverCaster struct {
	conn *db.DB
}

func (s serverCaster) CastJSON(ctx context.Context, text string) (sql.NullString, error) {
	var out sql.NullString
	err := s.conn.QueryRowContext(ctx, "SELECT CAST(? AS JSON)", text).Scan(&out)
	return out, err
}

// tidbPhrases is searched in order against the reason TiDB appends to an
// invalid JSON error. A longer phrase must precede any phrase it contains.
var tidbPhrases = []struct {
	phrase string
	code   mysqlCode
}{
	{"unexpected end of JSON input", tidbUnexpectedEnd},
	{"looking for beginning of object key string", tidbKeyStart},
	{"looking for beginning of value", tidbValueStart},
	{"after object key:value pair", tidbAfterMember},
	{"after object key", tidbAfterKey},
	{"after array element", tidbAfterElement},
	{"after top-level value", tidbTrailing},
	{"in \\u hexadecimal character escape", tidbUnicodeHex},
	{"in string escape code", tidbStringEscape},
	{"in string literal", tidbStringChar},
	{"after decimal point in numeric literal", tidbNumberFraction},
	{"in exponent of numeric literal", tidbNumberExponent},
	{"in numeric literal", tidbNumberDigit},
	{"in literal ", tidbLiteral},
	{"exceeded max depth", tidbDepth},
}

func tidbCodeOf(reason string) (mysqlCode, bool) {
	for _, p := range tidbPhrases {
		if strings.Contains(reason, p.phrase) {
			return p.code, true
		}
	}
	return 0, false
}

// MySQL sends each input to a MySQL-compatible server. MySQL parses with
// rapidjson and TiDB with a Go scanner; both reason sets are native codes of
// this adapter.
type MySQL struct {
	lastNative
	caster  jsonCaster
	conn    *db.DB
	timeout time.Duration
}

// NewMySQL opens the pool described by cfg. The server is not contacted here.
func NewMySQL(cfg config.MySQLConfig) (*MySQL, error) {
	conn, err := db.Open(cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "mysql backend")
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	return &MySQL{
		caster:  serverCaster{conn: conn},
		conn:    conn,
		timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, nil
}

// Name implements Adapter.
func (m *MySQL) Name() string {
	return "mysql"
}

// Close releases the connection pool.
func (m *MySQL) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// Parse implements Adapter. Transport failures classify as other_error; the
// fault is visible through LastNative.
func (m *MySQL) Parse(input []byte) outcome.Outcome {
	ctx := context.Background()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	res, err := m.caster.CastJSON(ctx, string(input))
	return m.classify(res, err)
}

func (m *MySQL) classify(res sql.NullString, err error) outcome.Outcome {
	if err == nil {
		if !res.Valid {
			m.record(mysqlNullResult.String(), "")
			return mysqlTable.Lookup(mysqlNullResult)
		}
		m.record(rapidjsonNone.String(), "")
		return mysqlTable.Lookup(rapidjsonNone)
	}
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		m.record(mysqlTransport.String(), err.Error())
		return mysqlTable.Lookup(mysqlTransport)
	}
	detail := fmt.Sprintf("%d: %s", mysqlErr.Number, mysqlErr.Message)
	var code mysqlCode
	switch mysqlErr.Number {
	case errInvalidJSONText, errInvalidJSONTextInParam:
		reason := invalidJSONReason(mysqlErr.Message)
		if rc, ok := rapidjsonCodeOf(reason); ok {
			code = rc
			break
		}
		if tc, ok := tidbCodeOf(reason); ok {
			code = tc
			break
		}
		code = mysqlServerOther
	case errInvalidJSONCharset:
		code = mysqlCharset
	case errInvalidCharacterString, errIncorrectStringValue:
		code = mysqlInvalidString
	case errJSONDocumentTooDeep:
		code = mysqlDepth
	default:
		code = mysqlServerOther
	}
	m.record(code.String(), detail)
	return mysqlTable.Lookup(code)
}

// invalidJSONReason extracts the parser message from an invalid JSON error.
// MySQL quotes it and appends a position; TiDB appends it after a colon.
func invalidJSONReason(msg string) string {
	if i := strings.Index(msg, `: "`); i >= 0 {
		rest := msg[i+3:]
		if end := strings.Index(rest, `" at position`); end >= 0 {
			return rest[:end]
		}
	}
	if _, after, ok := strings.Cut(msg, "Invalid JSON text: "); ok {
		return after
	}
	return msg
}
