// Package reportparse turns OCR-degraded academic report files into
// structured analyses: student details, subject scores, behaviour traits,
// subject rankings, and per-column statistics.
package reportparse

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aidilfitri/reportparse/behaviour"
	"github.com/aidilfitri/reportparse/loader"
	"github.com/aidilfitri/reportparse/normalize"
	"github.com/aidilfitri/reportparse/ranking"
	"github.com/aidilfitri/reportparse/stats"
	"github.com/aidilfitri/reportparse/store"
	"github.com/aidilfitri/reportparse/student"
	"github.com/aidilfitri/reportparse/subject"
	"github.com/aidilfitri/reportparse/vocab"
)

// Engine is the main entry point for the report analysis pipeline.
type Engine interface {
	// Analyze loads, normalizes, and analyzes a report file, persisting
	// the result. Skips re-analysis when the content hash is unchanged.
	Analyze(ctx context.Context, path string, opts ...AnalyzeOption) (*Result, error)

	// Report returns the stored analysis for a report ID.
	Report(ctx context.Context, id int64) (*Result, error)

	// ListReports returns all analyzed reports.
	ListReports(ctx context.Context) ([]Report, error)

	// Delete removes a report and its analysis.
	Delete(ctx context.Context, id int64) error

	// Store returns the underlying store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// Analysis is the full result of analyzing one report.
type Analysis struct {
	Student    student.Metadata    `json:"student"`
	Subjects   []SubjectScore      `json:"subjects,omitempty"`
	Strength   string              `json:"strength,omitempty"`
	Weakness   string              `json:"weakness,omitempty"`
	Behaviour  map[string]string   `json:"behaviour,omitempty"`
	ByRating   map[string][]string `json:"by_rating,omitempty"`
	Top        []ranking.Entry     `json:"top_subjects,omitempty"`
	Activities []string            `json:"activities,omitempty"`
	Statistics stats.Bundle        `json:"statistics"`
	Table      normalize.Table     `json:"table,omitempty"`
}

// SubjectScore is one resolved subject with its effective score.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// Result pairs a stored report with its analysis.
type Result struct {
	ReportID int64     `json:"report_id"`
	Filename string    `json:"filename"`
	Format   string    `json:"format"`
	Status   string    `json:"status"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Report represents an analyzed report file.
type Report struct {
	ID          int64             `json:"id"`
	Path        string            `json:"path"`
	Filename    string            `json:"filename"`
	Format      string            `json:"format"`
	ContentHash string            `json:"content_hash"`
	Status      string            `json:"status"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// AnalyzeOption configures analysis behavior.
type AnalyzeOption func(*analyzeOptions)

type analyzeOptions struct {
	forceReanalyze bool
	format         string
	metadata       map[string]string
}

// WithForceReanalyze forces re-analysis even if the hash hasn't changed.
func WithForceReanalyze() AnalyzeOption {
	return func(o *analyzeOptions) { o.forceReanalyze = true }
}

// WithFormat overrides the extension-based format selection.
func WithFormat(format string) AnalyzeOption {
	return func(o *analyzeOptions) { o.format = format }
}

// WithMetadata attaches custom metadata to the stored report.
func WithMetadata(metadata map[string]string) AnalyzeOption {
	return func(o *analyzeOptions) { o.metadata = metadata }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg     Config
	store   *store.Store
	loaders *loader.Registry
}

// New creates a new analysis engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if cfg.TopN == 0 {
		cfg.TopN = 5
	}
	if cfg.TopN < 0 {
		return nil, fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if cfg.MetadataScanLines == 0 {
		cfg.MetadataScanLines = defaultMetadataScanLines
	}

	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &engine{
		cfg:     cfg,
		store:   s,
		loaders: loader.NewRegistry(),
	}, nil
}

// Analyze runs a report file through the full pipeline.
func (e *engine) Analyze(ctx context.Context, path string, opts ...AnalyzeOption) (*Result, error) {
	options := &analyzeOptions{}
	for _, o := range opts {
		o(options)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	hash, err := fileHash(absPath)
	if err != nil {
		return nil, fmt.Errorf("hashing file: %w", err)
	}

	// Unchanged content returns the stored analysis.
	if !options.forceReanalyze {
		existing, err := e.store.GetReportByPath(ctx, absPath)
		if err == nil && existing.ContentHash == hash {
			if res, rerr := e.Report(ctx, existing.ID); rerr == nil {
				return res, nil
			}
		}
	}

	format := options.format
	if format == "" {
		format = strings.ToLower(strings.TrimPrefix(filepath.Ext(absPath), "."))
	}

	var metadataJSON string
	if options.metadata != nil {
		data, _ := json.Marshal(options.metadata)
		metadataJSON = string(data)
	}

	filename := filepath.Base(absPath)
	reportID, err := e.store.UpsertReport(ctx, store.Report{
		Path:        absPath,
		Filename:    filename,
		Format:      format,
		ContentHash: hash,
		Status:      "processing",
		Metadata:    metadataJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting report: %w", err)
	}

	l, err := e.loaders.Get(format)
	if err != nil {
		e.store.UpdateReportStatus(ctx, reportID, "error")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	slog.Info("analyze: loading report", "file", filename, "format", format, "report_id", reportID)
	loadStart := time.Now()

	doc, err := l.Load(ctx, absPath)
	if err != nil {
		e.store.UpdateReportStatus(ctx, reportID, "error")
		return nil, fmt.Errorf("%w: %v", ErrLoadingFailed, err)
	}

	slog.Info("analyze: loading complete",
		"file", filename, "method", doc.Method,
		"rows", len(doc.Rows), "elapsed", time.Since(loadStart).Round(time.Millisecond))

	analysis := e.analyzeDocument(doc)

	encoded, err := json.Marshal(analysis)
	if err != nil {
		e.store.UpdateReportStatus(ctx, reportID, "error")
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	if _, err := e.store.SaveAnalysis(ctx, reportID, string(encoded)); err != nil {
		e.store.UpdateReportStatus(ctx, reportID, "error")
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	e.store.UpdateReportStatus(ctx, reportID, "ready")

	slog.Info("analyze: report ready",
		"file", filename, "report_id", reportID,
		"records", len(analysis.Table),
		"subjects", len(analysis.Subjects),
		"total_elapsed", time.Since(loadStart).Round(time.Millisecond))

	return &Result{
		ReportID: reportID,
		Filename: filename,
		Format:   format,
		Status:   "ready",
		Analysis: analysis,
	}, nil
}

// analyzeDocument runs every extractor over a loaded document.
func (e *engine) analyzeDocument(doc *loader.Document) *Analysis {
	var table normalize.Table
	if len(doc.Rows) > 0 {
		table = normalize.Rows(doc.Header, doc.Rows)
	} else {
		table = normalize.FromText(doc.Text)
	}

	a := analyzeTable(table, doc.Text, e.cfg.MetadataScanLines)

	// Column-header names beat row scanning, and preamble metadata beats
	// both when present.
	if name := student.FromColumns(doc.Header); name != "" {
		a.Student.Name = name
	}
	for label, value := range doc.Metadata {
		low := strings.ToLower(label)
		switch {
		case a.Student.Name == "" && strings.Contains(low, "name"):
			a.Student.Name = value
		case a.Student.Gender == "" && strings.Contains(low, "gender"):
			a.Student.Gender = value
		case a.Student.State == "" && strings.Contains(low, "state"):
			a.Student.State = value
		}
	}

	topN := e.cfg.TopN
	if topN > 0 && len(a.Top) > topN {
		a.Top = a.Top[:topN]
	}
	return a
}

// AnalyzeTable runs the full extraction pipeline over an already
// normalized table. text carries the raw document text for the OCR
// fallback paths; pass "" when none exists. Extraction never fails:
// missing data yields empty fields.
func AnalyzeTable(table normalize.Table, text string) *Analysis {
	return analyzeTable(table, text, defaultMetadataScanLines)
}

func analyzeTable(table normalize.Table, text string, metaLines int) *Analysis {
	table = promoteResidualScores(table)
	a := &Analysis{Table: table}

	// Identity fields live near the top of a report; bounding the scan
	// keeps a stray "Name" deep in free text from becoming the student.
	meta := headLines(text, metaLines)

	a.Student = student.FromTable(table)
	if a.Student.Name == "" && meta != "" {
		if name := student.Name(meta); name != "" {
			a.Student.Name = name
		} else if student.LooksLikeCertificate(text) {
			// Certificates introduce the holder with a stock phrase
			// instead of a field label; the generic capitalized-run
			// fallback would swallow the phrase itself.
			a.Student.Name = student.CertificateName(text)
		} else {
			a.Student.Name = student.FullName(meta)
		}
	}
	if a.Student.Gender == "" && meta != "" {
		a.Student.Gender = student.Gender(meta)
	}
	if a.Student.State == "" && meta != "" {
		a.Student.State = student.State(meta)
	}

	scores := subject.Resolve(table)
	for _, label := range scores.Labels() {
		v, _ := scores.Get(label)
		a.Subjects = append(a.Subjects, SubjectScore{Subject: label, Score: v})
	}
	a.Strength = scores.Strength()
	a.Weakness = scores.Weakness()

	a.Behaviour = behaviour.Extract(table, text)
	if len(a.Behaviour) > 0 {
		a.ByRating = behaviour.GroupByRating(a.Behaviour)
	}

	a.Top = ranking.Top5(table, text)
	a.Activities = extractActivities(table)
	a.Statistics = stats.Compute(table)
	return a
}

// AnalyzeText normalizes raw OCR text and analyzes it.
func AnalyzeText(text string) *Analysis {
	return AnalyzeTable(normalize.FromText(text), text)
}

// AnalyzeRows normalizes structured rows and analyzes them.
func AnalyzeRows(header []string, rows [][]string) *Analysis {
	return AnalyzeTable(normalize.Rows(header, rows), "")
}

// Report returns the stored analysis for a report ID.
func (e *engine) Report(ctx context.Context, id int64) (*Result, error) {
	r, err := e.store.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrReportNotFound, id)
		}
		return nil, err
	}

	res := &Result{
		ReportID: r.ID,
		Filename: r.Filename,
		Format:   r.Format,
		Status:   r.Status,
	}

	stored, err := e.store.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: report %d", ErrAnalysisNotFound, id)
		}
		return nil, err
	}
	var a Analysis
	if err := json.Unmarshal([]byte(stored.Result), &a); err != nil {
		return nil, fmt.Errorf("decoding stored analysis: %w", err)
	}
	res.Analysis = &a
	return res, nil
}

// ListReports returns all analyzed reports.
func (e *engine) ListReports(ctx context.Context) ([]Report, error) {
	stored, err := e.store.ListReports(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(stored))
	for i, r := range stored {
		reports[i] = Report{
			ID:          r.ID,
			Path:        r.Path,
			Filename:    r.Filename,
			Format:      r.Format,
			ContentHash: r.ContentHash,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		if r.Metadata != "" {
			_ = json.Unmarshal([]byte(r.Metadata), &reports[i].Metadata)
		}
	}
	return reports, nil
}

// Delete removes a report and its analysis.
func (e *engine) Delete(ctx context.Context, id int64) error {
	return e.store.DeleteReport(ctx, id)
}

// Store returns the underlying store for diagnostic access.
func (e *engine) Store() *store.Store {
	return e.store
}

// Close shuts down the engine.
func (e *engine) Close() error {
	return e.store.Close()
}

// promoteResidualScores appends a Subjects record for any score left on a
// mixed identity line ("Name Arif Bin Hassan Languages 74/100") after the
// identity fields are carved out. Without this the subject pair would stay
// trapped inside a scoreless Student Details record.
func promoteResidualScores(t normalize.Table) normalize.Table {
	out := t
	for _, rec := range t.Section(normalize.SectionStudentDetails) {
		line := strings.TrimSpace(rec.Label + " " + rec.Value)
		_, sl := student.ParseMetadataLine(line)
		if sl == nil || sl.Label == "" {
			continue
		}
		score := sl.Score
		out = append(out, normalize.Record{
			Section: normalize.SectionSubjects,
			Label:   sl.Label,
			Score:   &score,
			Maximum: sl.Maximum,
		})
	}
	return out
}

// headLines returns at most the first n lines of text. n <= 0 means no
// bound.
func headLines(text string, n int) string {
	if n <= 0 || text == "" {
		return text
	}
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[:n], "\n")
}

var activitySectionPattern = regexp.MustCompile(`(?i)co-?curricular|activity|activities`)

// extractActivities collects activity names from co-curricular records.
// Labels often pack several activities into one cell; split on column
// separators and slashes and drop parts that are just field labels.
func extractActivities(t normalize.Table) []string {
	seen := make(map[string]struct{})
	var activities []string

	for _, rec := range t {
		label := strings.TrimSpace(rec.Label)
		if label == "" {
			continue
		}
		inSection := activitySectionPattern.MatchString(rec.Section)
		if !inSection && !hasCoCurricularWord(label) {
			continue
		}
		for _, part := range splitActivityCell(label) {
			if part == "" || isMetadataWord(part) {
				continue
			}
			key := strings.ToLower(part)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			activities = append(activities, part)
		}
	}
	return activities
}

var activitySplitPattern = regexp.MustCompile(`\s*\|\s*|\s*/\s*`)

func splitActivityCell(label string) []string {
	parts := activitySplitPattern.Split(label, -1)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func hasCoCurricularWord(label string) bool {
	for _, w := range strings.Fields(strings.ToLower(label)) {
		if vocab.IsCoCurricularKeyword(w) {
			return true
		}
	}
	return false
}

func isMetadataWord(part string) bool {
	words := strings.Fields(strings.ToLower(part))
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !vocab.IsMetadataKeyword(w) {
			return false
		}
	}
	return true
}

// fileHash computes the SHA-256 hash of a file's content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
