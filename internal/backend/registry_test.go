package backend

import (
	"testing"

	"jsonoracle/internal/config"
	"jsonoracle/internal/mapping"
	"jsonoracle/internal/outcome"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestBuildDefaultBackends(t *testing.T) {
	adapters, err := Build(config.Default())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer CloseAll(adapters)
	var names []string
	for _, a := range adapters {
		names = append(names, a.Name())
		if _, ok := a.(Diagnoser); !ok {
			t.Fatalf("%s does not expose native results", a.Name())
		}
	}
	if diff := cmp.Diff(config.DefaultBackends, names); diff != "" {
		t.Fatalf("adapter order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backends = []string{"stdlib", "simdjson"}
	_, err := Build(cfg)
	var unknown *UnknownBackendError
	if !errors.As(err, &unknown) || unknown.Name != "simdjson" {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestTablesCoverEveryBackend(t *testing.T) {
	var names []string
	for _, tbl := range Tables() {
		names = append(names, tbl.Backend())
	}
	if diff := cmp.Diff(Names(), names); diff != "" {
		t.Fatalf("table list mismatch (-want +got):\n%s", diff)
	}
}

func TestTablesAreTotal(t *testing.T) {
	for _, tbl := range Tables() {
		entries := tbl.Entries()
		if len(entries) == 0 {
			t.Fatalf("%s: empty table", tbl.Backend())
		}
		seen := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if !e.Outcome.Valid() {
				t.Fatalf("%s: code %s unmapped", tbl.Backend(), e.Code)
			}
			if _, dup := seen[e.Code]; dup {
				t.Fatalf("%s: code %s listed twice", tbl.Backend(), e.Code)
			}
			seen[e.Code] = struct{}{}
		}
		if entries[0].Outcome != outcome.OK {
			t.Fatalf("%s: first code %s must be the success code", tbl.Backend(), entries[0].Code)
		}
		for _, e := range entries[1:] {
			if e.Outcome == outcome.OK {
				t.Fatalf("%s: error code %s maps to ok", tbl.Backend(), e.Code)
			}
		}
	}
}

// Rapidjson's table is fixed by the server's parser; pin it entry by entry.
func TestRapidJSONTable(t *testing.T) {
	want := []mapping.Entry{
		{Code: "kParseErrorNone", Outcome: outcome.OK},
		{Code: "kParseErrorDocumentEmpty", Outcome: outcome.OtherError},
		{Code: "kParseErrorDocumentRootNotSingular", Outcome: outcome.OtherError},
		{Code: "kParseErrorValueInvalid", Outcome: outcome.OtherError},
		{Code: "kParseErrorObjectMissName", Outcome: outcome.OtherError},
		{Code: "kParseErrorObjectMissColon", Outcome: outcome.OtherError},
		{Code: "kParseErrorObjectMissCommaOrCurlyBracket", Outcome: outcome.OtherError},
		{Code: "kParseErrorArrayMissCommaOrSquareBracket", Outcome: outcome.OtherError},
		{Code: "kParseErrorStringUnicodeEscapeInvalidHex", Outcome: outcome.EncodingError},
		{Code: "kParseErrorStringUnicodeSurrogateInvalid", Outcome: outcome.StringError},
		{Code: "kParseErrorStringEscapeInvalid", Outcome: outcome.StringError},
		{Code: "kParseErrorStringMissQuotationMark", Outcome: outcome.StringError},
		{Code: "kParseErrorStringInvalidEncoding", Outcome: outcome.StringError},
		{Code: "kParseErrorNumberTooBig", Outcome: outcome.NumberError},
		{Code: "kParseErrorNumberMissFraction", Outcome: outcome.NumberError},
		{Code: "kParseErrorNumberMissExponent", Outcome: outcome.NumberError},
		{Code: "kParseErrorTermination", Outcome: outcome.OtherError},
		{Code: "kParseErrorUnspecificSyntaxError", Outcome: outcome.OtherError},
	}
	got := mysqlTable.Entries()[:int(numRapidJSONCodes)]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rapidjson table mismatch (-want +got):\n%s", diff)
	}
}
