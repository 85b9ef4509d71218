package config

import (
	"os"
	"strings"

	"jsonoracle/internal/runinfo"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for the oracle and its runner.
type Config struct {
	Backends       []string           `yaml:"backends"`
	Parallel       bool               `yaml:"parallel"`
	Workers        int                `yaml:"workers"`
	MaxInputBytes  int                `yaml:"max_input_bytes"`
	InputTimeoutMs int                `yaml:"input_timeout_ms"`
	JSONText       JSONTextConfig     `yaml:"jsontext"`
	JSONIter       JSONIterConfig     `yaml:"jsoniter"`
	MySQL          MySQLConfig        `yaml:"mysql"`
	Report         ReportConfig       `yaml:"report"`
	Storage        StorageConfig      `yaml:"storage"`
	Logging        Logging            `yaml:"logging"`
	Bench          BenchConfig        `yaml:"bench"`
	RunInfo        *runinfo.BasicInfo `yaml:"-"`
}

// JSONTextConfig toggles the strictness options of the jsontext backend.
type JSONTextConfig struct {
	AllowDuplicateNames bool `yaml:"allow_duplicate_names"`
	AllowInvalidUTF8    bool `yaml:"allow_invalid_utf8"`
}

// JSONIterConfig configures the jsoniter backend.
type JSONIterConfig struct {
	UseNumber bool `yaml:"use_number"`
}

// MySQLConfig configures the server-side backend. The server's own JSON
// parser (rapidjson for MySQL, Go for TiDB) does the parsing.
type MySQLConfig struct {
	DSN          string `yaml:"dsn"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// ReportConfig controls disagreement case output.
type ReportConfig struct {
	OutputDir            string `yaml:"output_dir"`
	Archive              bool   `yaml:"archive"`
	UseUUIDPath          bool   `yaml:"use_uuid_path"`
	MaxCasesPerSignature int    `yaml:"max_cases_per_signature"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose               bool   `yaml:"verbose"`
	ReportIntervalSeconds int    `yaml:"report_interval_seconds"`
	LogFile               string `yaml:"log_file"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	Repeat            int `yaml:"repeat"`
	CalibrationRepeat int `yaml:"calibration_repeat"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (AWS and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

const (
	maxInputBytesDefault        = 1 << 20
	inputTimeoutMsDefault       = 5000
	mysqlTimeoutMsDefault       = 2000
	mysqlMaxOpenConnsDefault    = 4
	maxCasesPerSignatureDefault = 3
	reportIntervalDefault       = 30
	benchRepeatDefault          = 100
	calibrationRepeatDefault    = 1000
)

// DefaultBackends lists the in-process backends enabled when the config names none.
var DefaultBackends = []string{"stdlib", "jsontext", "jsoniter", "fastjson"}

func normalizeConfig(cfg *Config) {
	cfg.Backends = normalizeBackends(cfg.Backends)
	if len(cfg.Backends) == 0 {
		cfg.Backends = append([]string(nil), DefaultBackends...)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = maxInputBytesDefault
	}
	if cfg.InputTimeoutMs < 0 {
		cfg.InputTimeoutMs = 0
	}
	if cfg.MySQL.TimeoutMs <= 0 {
		cfg.MySQL.TimeoutMs = mysqlTimeoutMsDefault
	}
	if cfg.MySQL.MaxOpenConns <= 0 {
		cfg.MySQL.MaxOpenConns = mysqlMaxOpenConnsDefault
	}
	if cfg.Report.MaxCasesPerSignature <= 0 {
		cfg.Report.MaxCasesPerSignature = maxCasesPerSignatureDefault
	}
	if strings.TrimSpace(cfg.Report.OutputDir) == "" {
		cfg.Report.OutputDir = "reports"
	}
	if cfg.Logging.ReportIntervalSeconds <= 0 {
		cfg.Logging.ReportIntervalSeconds = reportIntervalDefault
	}
	if cfg.Bench.Repeat <= 0 {
		cfg.Bench.Repeat = benchRepeatDefault
	}
	if cfg.Bench.CalibrationRepeat <= 0 {
		cfg.Bench.CalibrationRepeat = calibrationRepeatDefault
	}
}

// normalizeBackends lower-cases names and drops blanks. Duplicates are kept so
// that registration can reject them loudly.
func normalizeBackends(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Default returns the configuration used when no file overrides a field.
func Default() Config {
	return Config{
		Backends:       append([]string(nil), DefaultBackends...),
		Workers:        1,
		MaxInputBytes:  maxInputBytesDefault,
		InputTimeoutMs: inputTimeoutMsDefault,
		JSONText: JSONTextConfig{
			AllowDuplicateNames: true,
		},
		MySQL: MySQLConfig{
			DSN:          "root:@tcp(127.0.0.1:4000)/",
			TimeoutMs:    mysqlTimeoutMsDefault,
			MaxOpenConns: mysqlMaxOpenConnsDefault,
		},
		Report: ReportConfig{
			OutputDir:            "reports",
			Archive:              true,
			MaxCasesPerSignature: maxCasesPerSignatureDefault,
		},
		Logging: Logging{
			ReportIntervalSeconds: reportIntervalDefault,
			LogFile:               "logs/jsonoracle.log",
		},
		Bench: BenchConfig{
			Repeat:            benchRepeatDefault,
			CalibrationRepeat: calibrationRepeatDefault,
		},
	}
}
