package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return tmp.Name()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(DefaultBackends, cfg.Backends); diff != "" {
		t.Fatalf("unexpected backends (-want +got):\n%s", diff)
	}
	if cfg.Workers != 1 {
		t.Fatalf("unexpected workers: %d", cfg.Workers)
	}
	if cfg.Parallel {
		t.Fatalf("expected sequential evaluation by default")
	}
	if cfg.MaxInputBytes != maxInputBytesDefault {
		t.Fatalf("unexpected max input bytes: %d", cfg.MaxInputBytes)
	}
	if !cfg.JSONText.AllowDuplicateNames {
		t.Fatalf("expected duplicate names allowed by default")
	}
	if cfg.JSONText.AllowInvalidUTF8 {
		t.Fatalf("expected invalid utf-8 rejected by default")
	}
	if cfg.MySQL.TimeoutMs != mysqlTimeoutMsDefault {
		t.Fatalf("unexpected mysql timeout: %d", cfg.MySQL.TimeoutMs)
	}
	if cfg.Report.OutputDir != "reports" || !cfg.Report.Archive {
		t.Fatalf("unexpected report config: %+v", cfg.Report)
	}
	if cfg.Logging.LogFile != "logs/jsonoracle.log" {
		t.Fatalf("unexpected log file: %s", cfg.Logging.LogFile)
	}
	if cfg.Storage.CloudEnabled() {
		t.Fatalf("expected cloud storage disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	content := `backends: [" StdLib ", "mysql", ""]
parallel: true
workers: 4
jsontext:
  allow_duplicate_names: false
mysql:
  dsn: "root:@tcp(10.0.0.1:3306)/"
report:
  output_dir: out
  max_cases_per_signature: 10
storage:
  s3:
    enabled: true
    bucket: cases
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff([]string{"stdlib", "mysql"}, cfg.Backends); diff != "" {
		t.Fatalf("unexpected backends (-want +got):\n%s", diff)
	}
	if !cfg.Parallel || cfg.Workers != 4 {
		t.Fatalf("unexpected parallel/workers: %v/%d", cfg.Parallel, cfg.Workers)
	}
	if cfg.JSONText.AllowDuplicateNames {
		t.Fatalf("expected duplicate names override")
	}
	if cfg.MySQL.DSN != "root:@tcp(10.0.0.1:3306)/" {
		t.Fatalf("unexpected dsn: %s", cfg.MySQL.DSN)
	}
	if cfg.MySQL.TimeoutMs != mysqlTimeoutMsDefault {
		t.Fatalf("expected default mysql timeout to survive, got %d", cfg.MySQL.TimeoutMs)
	}
	if cfg.Report.OutputDir != "out" || cfg.Report.MaxCasesPerSignature != 10 {
		t.Fatalf("unexpected report config: %+v", cfg.Report)
	}
	if !cfg.Storage.CloudEnabled() {
		t.Fatalf("expected cloud storage enabled")
	}
}

func TestNormalizeFillsNonPositive(t *testing.T) {
	content := `backends: []
workers: -2
max_input_bytes: 0
input_timeout_ms: -5
report:
  output_dir: "  "
bench:
  repeat: 0
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Backends) != len(DefaultBackends) {
		t.Fatalf("expected default backends, got %v", cfg.Backends)
	}
	if cfg.Workers != 1 {
		t.Fatalf("unexpected workers: %d", cfg.Workers)
	}
	if cfg.MaxInputBytes != maxInputBytesDefault {
		t.Fatalf("unexpected max input bytes: %d", cfg.MaxInputBytes)
	}
	if cfg.InputTimeoutMs != 0 {
		t.Fatalf("expected negative timeout to disable the budget, got %d", cfg.InputTimeoutMs)
	}
	if cfg.Report.OutputDir != "reports" {
		t.Fatalf("unexpected output dir: %q", cfg.Report.OutputDir)
	}
	if cfg.Bench.Repeat != benchRepeatDefault {
		t.Fatalf("unexpected bench repeat: %d", cfg.Bench.Repeat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "workers: [1,2")); err == nil {
		t.Fatalf("expected parse error")
	}
}
