package report

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Index lists the case summaries found under a report directory.
type Index struct {
	GeneratedAt string    `json:"generated_at"`
	Source      string    `json:"source"`
	Cases       []Summary `json:"cases"`
}

// SignatureCount is the number of cases recorded for one signature.
type SignatureCount struct {
	Signature string
	Status    string
	Cases     int
	Latest    string
}

// LoadIndex reads every summary.json below root, newest first. Unreadable
// summaries are skipped and returned as the second value.
func LoadIndex(root string) (Index, []string, error) {
	idx := Index{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      root,
	}
	var skipped []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != SummaryFile {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, path)
			return nil
		}
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil {
			skipped = append(skipped, path)
			return nil
		}
		if s.CaseDir == "" {
			s.CaseDir = filepath.Dir(path)
		}
		idx.Cases = append(idx.Cases, s)
		return nil
	})
	if err != nil {
		return Index{}, nil, errors.Wrapf(err, "scan %s", root)
	}
	sort.SliceStable(idx.Cases, func(i, j int) bool {
		if idx.Cases[i].Timestamp != idx.Cases[j].Timestamp {
			return idx.Cases[i].Timestamp > idx.Cases[j].Timestamp
		}
		return idx.Cases[i].CaseDir < idx.Cases[j].CaseDir
	})
	return idx, skipped, nil
}

// BySignature groups the index by signature, most frequent first.
func (idx Index) BySignature() []SignatureCount {
	bySig := make(map[string]*SignatureCount)
	for _, c := range idx.Cases {
		sc, ok := bySig[c.Signature]
		if !ok {
			sc = &SignatureCount{Signature: c.Signature, Status: string(c.Status)}
			bySig[c.Signature] = sc
		}
		sc.Cases++
		if c.Timestamp > sc.Latest {
			sc.Latest = c.Timestamp
		}
	}
	out := make([]SignatureCount, 0, len(bySig))
	for _, sc := range bySig {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cases != out[j].Cases {
			return out[i].Cases > out[j].Cases
		}
		return out[i].Signature < out[j].Signature
	})
	return out
}

// WriteIndex writes the index as indented JSON.
func WriteIndex(path string, idx Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create index dir")
	}
	return writeJSON(path, idx)
}
