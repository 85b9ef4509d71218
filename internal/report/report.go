// Package report writes disagreement cases to disk.
//
// A case directory holds the raw input (input.bin), the verdict
// (verdict.json), a rendered table (report.txt), run metadata (summary.json)
// and, optionally, a zstd-compressed tar of all of them (case.tar.zst).
package report

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jsonoracle/internal/oracle"
	"jsonoracle/internal/runinfo"
	"jsonoracle/internal/util"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// File names inside a case directory.
const (
	InputFile        = "input.bin"
	VerdictFile      = "verdict.json"
	ReportFile       = "report.txt"
	SummaryFile      = "summary.json"
	CaseArchiveName  = "case.tar.zst"
	CaseArchiveCodec = "zstd"
)

// Reporter writes case artifacts to disk. It is safe for concurrent use.
type Reporter struct {
	OutputDir   string
	UseUUIDPath bool
	Archive     bool

	mu      sync.Mutex
	caseSeq int
}

// Case describes a report directory.
type Case struct {
	ID  string
	Dir string
}

// Summary captures the persisted metadata for a case.
type Summary struct {
	CaseID          string             `json:"case_id"`
	CaseDir         string             `json:"case_dir"`
	Source          string             `json:"source,omitempty"`
	InputSize       int                `json:"input_size"`
	InputSHA256     string             `json:"input_sha256"`
	Status          oracle.Status      `json:"status"`
	Signature       string             `json:"signature"`
	Agreement       bool               `json:"agreement"`
	AcceptanceSplit bool               `json:"acceptance_split"`
	Outcomes        map[string]string  `json:"outcomes"`
	ArchiveName     string             `json:"archive_name,omitempty"`
	ArchiveCodec    string             `json:"archive_codec,omitempty"`
	UploadLocation  string             `json:"upload_location,omitempty"`
	Timestamp       string             `json:"timestamp"`
	RunInfo         *runinfo.BasicInfo `json:"run_info,omitempty"`
}

// New creates a reporter that writes to outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewCase allocates a new case directory.
func (r *Reporter) NewCase() (Case, error) {
	r.mu.Lock()
	r.caseSeq++
	seq := r.caseSeq
	r.mu.Unlock()

	caseID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		caseID = v7.String()
	}
	caseDir := fmt.Sprintf("case_%04d_%s", seq, caseID)
	if r.UseUUIDPath {
		caseDir = caseID
	}
	dir := filepath.Join(r.OutputDir, caseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Case{}, errors.Wrap(err, "create case dir")
	}
	return Case{ID: caseID, Dir: dir}, nil
}

// NewSummary fills the verdict-derived fields of a summary.
func NewSummary(c Case, source string, input []byte, v oracle.Verdict, info *runinfo.BasicInfo) Summary {
	sum := sha256.Sum256(input)
	outcomes := make(map[string]string, len(v.Entries))
	for _, e := range v.Entries {
		if e.Faulted() {
			outcomes[e.Backend] = "fault"
			continue
		}
		outcomes[e.Backend] = e.Outcome.String()
	}
	return Summary{
		CaseID:          c.ID,
		CaseDir:         c.Dir,
		Source:          source,
		InputSize:       len(input),
		InputSHA256:     hex.EncodeToString(sum[:]),
		Status:          v.Status(),
		Signature:       v.Signature(),
		Agreement:       v.Agreement,
		AcceptanceSplit: v.AcceptanceSplit(),
		Outcomes:        outcomes,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		RunInfo:         info,
	}
}

// WriteCase writes every artifact of a case, archiving it when enabled, and
// returns the summary as written.
func (r *Reporter) WriteCase(c Case, input []byte, v oracle.Verdict, summary Summary) (Summary, error) {
	if err := os.WriteFile(filepath.Join(c.Dir, InputFile), input, 0o644); err != nil {
		return summary, errors.Wrap(err, "write input")
	}
	if err := writeJSON(filepath.Join(c.Dir, VerdictFile), v); err != nil {
		return summary, errors.Wrap(err, "write verdict")
	}
	if err := r.writeRendered(c, v); err != nil {
		return summary, err
	}
	if err := r.WriteSummary(c, summary); err != nil {
		return summary, err
	}
	if !r.Archive {
		return summary, nil
	}
	name, codec, err := r.WriteCaseArchive(c)
	if err != nil {
		return summary, errors.Wrap(err, "archive case")
	}
	summary.ArchiveName = name
	summary.ArchiveCodec = codec
	return summary, r.WriteSummary(c, summary)
}

func (r *Reporter) writeRendered(c Case, v oracle.Verdict) error {
	f, err := os.Create(filepath.Join(c.Dir, ReportFile))
	if err != nil {
		return errors.Wrap(err, "create report")
	}
	defer util.CloseWithErr(f, "report output")
	Render(f, v)
	return nil
}

// WriteSummary writes summary.json into the case directory.
func (r *Reporter) WriteSummary(c Case, summary Summary) error {
	return writeJSON(filepath.Join(c.Dir, SummaryFile), summary)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, filepath.Base(path))
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ReadCase loads the input and recorded verdict of a case directory.
func ReadCase(dir string) ([]byte, oracle.Verdict, error) {
	input, err := os.ReadFile(filepath.Join(dir, InputFile))
	if err != nil {
		return nil, oracle.Verdict{}, errors.Wrap(err, "read input")
	}
	data, err := os.ReadFile(filepath.Join(dir, VerdictFile))
	if err != nil {
		return nil, oracle.Verdict{}, errors.Wrap(err, "read verdict")
	}
	var v oracle.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, oracle.Verdict{}, errors.Wrap(err, "parse verdict")
	}
	return input, v, nil
}

// WriteCaseArchive creates a compressed archive for the case directory.
func (r *Reporter) WriteCaseArchive(c Case) (name string, codec string, err error) {
	archivePath := filepath.Join(c.Dir, CaseArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(c.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer util.CloseWithErr(src, "archive source")
		_, err = io.Copy(tw, src)
		return err
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return CaseArchiveName, CaseArchiveCodec, nil
}
