package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/config"
	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/provider"
	"github.com/willi202202/rechnungen-sort/internal/storage"
	"github.com/willi202202/rechnungen-sort/internal/strom"
)

type ScanService struct {
	db  *storage.DB
	cfg config.Config
	reg *provider.Registry
	log *zap.SugaredLogger
}

func NewScanService(db *storage.DB, cfg config.Config, log *zap.Logger) *ScanService {
	return &ScanService{
		db:  db,
		cfg: cfg,
		reg: provider.NewRegistry(cfg),
		log: log.Sugar(),
	}
}

type ScanSummary struct {
	Scanned   int
	Moved     int
	Unmatched int
	Errors    int
	Outcomes  []internal.ScanOutcome
}

// ScanInbox classifies every PDF directly in the inbox folder (no recursion)
// and moves recognized documents into their provider subfolder. Unrecognized
// files stay where they are.
func (s *ScanService) ScanInbox() (ScanSummary, error) {
	pdfs, err := listPDFs(s.cfg.BaseDir)
	if err != nil {
		return ScanSummary{}, err
	}

	summary := ScanSummary{Scanned: len(pdfs)}
	for _, path := range pdfs {
		outcome := s.scanOne(path)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Status {
		case internal.ScanMoved:
			summary.Moved++
		case internal.ScanUnmatched:
			summary.Unmatched++
		case internal.ScanError:
			summary.Errors++
		}
	}
	return summary, nil
}

func (s *ScanService) scanOne(path string) internal.ScanOutcome {
	name := filepath.Base(path)
	outcome := internal.ScanOutcome{File: name}

	content, err := os.ReadFile(path)
	if err != nil {
		s.log.Warnw("read failed", "file", name, "error", err)
		outcome.Status = internal.ScanError
		return outcome
	}
	hash := contentHash(content)

	pages, err := pdftext.Pages(content)
	if err != nil {
		s.log.Warnw("text extraction failed", "file", name, "error", err)
		outcome.Status = internal.ScanError
		s.persistDocument(name, hash, "", internal.ScanError)
		return outcome
	}
	text := strings.Join(pages, pdftext.PageSeparator)

	p := s.reg.Classify(text)
	if p == nil {
		s.log.Infow("no provider recognized, file stays in inbox", "file", name)
		outcome.Status = internal.ScanUnmatched
		s.persistDocument(name, hash, "", internal.ScanUnmatched)
		return outcome
	}
	outcome.Provider = p.Name()

	rec := p.Parse(text, name)
	outcome.Record = &rec
	if rec.Date == "" {
		outcome.Warnings = append(outcome.Warnings, "no document date found")
	}
	if rec.Amount.IsZero() {
		outcome.Warnings = append(outcome.Warnings, "amount is zero or missing")
	}

	targetDir := s.targetDir(p.Name())
	if err := moveFile(path, filepath.Join(targetDir, name)); err != nil {
		s.log.Warnw("move failed", "file", name, "target", targetDir, "error", err)
		outcome.Status = internal.ScanError
		s.persistDocument(name, hash, p.Name(), internal.ScanError)
		return outcome
	}
	outcome.Status = internal.ScanMoved
	s.log.Infow("moved", "file", name, "provider", p.Name(), "target", targetDir)

	docID, ok := s.persistDocument(name, hash, p.Name(), internal.ScanMoved)
	if !ok {
		return outcome
	}
	if err := s.db.ClearDocumentResults(docID); err != nil {
		s.log.Warnw("clearing previous results failed", "file", name, "error", err)
		return outcome
	}
	if _, err := s.db.InsertRecord(docID, p.Name(), rec); err != nil {
		s.log.Warnw("storing record failed", "file", name, "error", err)
		return outcome
	}

	if op, ok := p.(provider.ObjectParser); ok {
		_, rows := op.ParseObjects(text, name)
		for _, row := range rows {
			objID, err := s.db.InsertStromObject(docID, row)
			if err != nil {
				s.log.Warnw("storing object row failed", "file", name, "object", row.Object, "error", err)
				continue
			}
			if err := s.db.InsertVerification(objID, strom.Verify(row)); err != nil {
				s.log.Warnw("storing verification failed", "file", name, "object", row.Object, "error", err)
			}
		}
	}

	return outcome
}

func (s *ScanService) persistDocument(name, hash, providerName string, status internal.ScanStatus) (int64, bool) {
	id, err := s.db.UpsertDocument(name, hash, providerName, status)
	if err != nil {
		s.log.Warnw("storing document failed", "file", name, "error", err)
		return 0, false
	}
	return id, true
}

func (s *ScanService) targetDir(providerName string) string {
	switch providerName {
	case "Swisscom":
		return s.cfg.SwisscomDir
	case "Swisscard":
		return s.cfg.SwisscardDir
	case "SZKB_Privatkonto":
		return s.cfg.SZKBDir
	case "Strom":
		return s.cfg.StromDir
	}
	return filepath.Join(s.cfg.BaseDir, strings.ToLower(providerName))
}

// WriteSummary prints the human-readable closing block of a scan run.
func WriteSummary(w io.Writer, summary ScanSummary) {
	fmt.Fprintln(w, "========== Zusammenfassung ==========")
	fmt.Fprintf(w, "Gefundene PDFs:           %d\n", summary.Scanned)
	fmt.Fprintf(w, "Verschobene PDFs:         %d\n", summary.Moved)
	fmt.Fprintf(w, "Nicht zugeordnete PDFs:   %d\n", summary.Unmatched)
	fmt.Fprintf(w, "Fehler:                   %d\n", summary.Errors)
	for _, o := range summary.Outcomes {
		if o.Status == internal.ScanUnmatched {
			fmt.Fprintf(w, "  - %s\n", o.File)
		}
	}
	fmt.Fprintln(w, "=====================================")
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// moveFile renames, falling back to copy+remove for cross-device targets.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
