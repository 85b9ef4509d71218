package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/oracle"
	"jsonoracle/internal/report"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAuditPrintsEveryTable(t *testing.T) {
	out, err := execute(t, "", "audit")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	for _, name := range backend.Names() {
		if !strings.Contains(out, name) {
			t.Fatalf("audit output misses %s:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "kParseErrorStringInvalidEncoding") {
		t.Fatalf("audit output misses rapidjson codes:\n%s", out)
	}
	if _, err := execute(t, "", "audit", "--backend", "nope"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestEvalStdinJSON(t *testing.T) {
	out, err := execute(t, `{"a": [1, "two", null]}`, "eval", "--json")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var got evalOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("parse eval output: %v\n%s", err, out)
	}
	if got.Source != "-" || got.Status != oracle.StatusAgree || len(got.Verdict.Entries) != 4 {
		t.Fatalf("unexpected eval output: %+v", got)
	}
}

func TestEvalFilesRendered(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[true]`)
	b := writeFile(t, dir, "b.json", `"\u12"`)
	out, err := execute(t, "", "eval", "--backends", "stdlib,fastjson", a, b)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if strings.Count(out, "signature:") != 2 {
		t.Fatalf("expected two verdicts:\n%s", out)
	}
	if !strings.Contains(out, "fastjson=encoding_error,stdlib=encoding_error") {
		t.Fatalf("expected both backends to reject the short escape:\n%s", out)
	}
}

func TestEvalRejectsDuplicateBackend(t *testing.T) {
	_, err := execute(t, "{}", "eval", "--backends", "stdlib,stdlib")
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate backend error, got %v", err)
	}
}

func TestEvalInputLimit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "max_input_bytes: 4\n")
	if _, err := execute(t, `{"too": "long"}`, "eval", "--config", cfgPath); err == nil {
		t.Fatalf("expected input limit error")
	}
	if _, err := execute(t, "{}", "eval", "--config", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}

func TestRunThenCases(t *testing.T) {
	dir := t.TempDir()
	inputs := filepath.Join(dir, "inputs")
	if err := os.MkdirAll(inputs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, inputs, "ok.json", `{"k": 1}`)
	writeFile(t, inputs, "range.json", `[1e400]`)
	reports := filepath.Join(dir, "reports")
	cfgPath := writeFile(t, dir, "config.yaml", strings.Join([]string{
		"backends: [stdlib, fastjson]",
		"workers: 2",
		"report:",
		"  output_dir: " + reports,
		"  archive: false",
		"logging:",
		"  log_file: " + filepath.Join(dir, "logs", "run.log"),
		"",
	}, "\n"))

	out, err := execute(t, "", "run", "--config", cfgPath, inputs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "evaluated=2") || !strings.Contains(out, "cases=1") {
		t.Fatalf("unexpected run output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "run.log")); err != nil {
		t.Fatalf("log file not created: %v", err)
	}

	index := filepath.Join(dir, "site", "cases.json")
	out, err = execute(t, "", "cases", "--config", cfgPath, "--output", index)
	if err != nil {
		t.Fatalf("cases: %v", err)
	}
	if !strings.Contains(out, "fastjson=ok,stdlib=number_error") || !strings.Contains(out, "1 case(s)") {
		t.Fatalf("unexpected cases output:\n%s", out)
	}
	if _, err := os.Stat(index); err != nil {
		t.Fatalf("index not written: %v", err)
	}

	idx, _, err := report.LoadIndex(reports)
	if err != nil || len(idx.Cases) != 1 {
		t.Fatalf("load index: %v %+v", err, idx)
	}
	out, err = execute(t, "", "repro", "-n", "2", idx.Cases[0].CaseDir)
	if err != nil {
		t.Fatalf("repro: %v\n%s", err, out)
	}
	if !strings.Contains(out, "reproduced") {
		t.Fatalf("unexpected repro output:\n%s", out)
	}
}

func TestBench(t *testing.T) {
	file := writeFile(t, t.TempDir(), "doc.json", `{"a": [1, 2, 3], "b": {"c": "d"}}`)
	out, err := execute(t, "", "bench", "-n", "3", "--backends", "stdlib,jsontext", file)
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if !strings.Contains(out, "stdlib") || !strings.Contains(out, "jsontext") {
		t.Fatalf("unexpected bench output:\n%s", out)
	}
}
