package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/closurecast/closurecast/internal/pipeline"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a free-form name into a filesystem-safe slug, at most
// 50 characters.
func GenerateSlug(s string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	return slug
}

// CreateOutputDir creates a timestamped directory under base for one run.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s-%s", slug, time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Writer persists one run's ledger entry: the decision, the collaboration
// audit trail, a markdown report, and the run log. Nothing is written until
// the run has fully succeeded.
type Writer struct {
	dir  string
	logs []string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Log buffers one run-log line.
func (w *Writer) Log(line string) {
	w.logs = append(w.logs, fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), line))
}

// WriteResult persists the full ledger entry for a completed run.
func (w *Writer) WriteResult(result *pipeline.Result) error {
	if err := w.writeJSON("decision.json", result.Decision); err != nil {
		return err
	}
	if result.Collaboration != nil {
		if err := w.writeJSON("collaboration.json", result.Collaboration); err != nil {
			return err
		}
	}
	if err := w.writeJSON("run.json", result); err != nil {
		return err
	}
	return w.writeMarkdown(result)
}

// WriteRun creates the timestamped run directory under baseDir and persists
// the ledger entry plus the buffered log lines in one step. Callers invoke it
// only after a run has succeeded, so a fatal failure leaves no directory
// behind.
func WriteRun(baseDir, slug string, result *pipeline.Result, logs []string) (string, error) {
	dir, err := CreateOutputDir(baseDir, slug)
	if err != nil {
		return "", err
	}
	w := NewWriter(dir)
	for _, line := range logs {
		w.Log(line)
	}
	if err := w.WriteResult(result); err != nil {
		return "", err
	}
	if err := w.WriteLog(); err != nil {
		return "", err
	}
	return dir, nil
}

// WriteLog flushes the buffered run log.
func (w *Writer) WriteLog() error {
	return os.WriteFile(filepath.Join(w.dir, "run.log"), []byte(strings.Join(w.logs, "\n")+"\n"), 0o644)
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(w.dir, name), data, 0o644)
}

func (w *Writer) writeMarkdown(result *pipeline.Result) error {
	var sb strings.Builder
	d := result.Decision

	fmt.Fprintf(&sb, "# Closure Forecast\n\n")
	fmt.Fprintf(&sb, "Run `%s`, %s\n\n", result.RunID, result.FinishedAt.Format(time.RFC1123))
	fmt.Fprintf(&sb, "## Decision\n\n")
	fmt.Fprintf(&sb, "**Closure probability: %.0f%%** (confidence: %s)\n\n", d.Probability, d.ConfidenceLevel)
	if len(d.PrimaryFactors) > 0 {
		fmt.Fprintf(&sb, "Primary factors:\n\n")
		for _, f := range d.PrimaryFactors {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s\n\n", d.Rationale)
	if d.Timeline.Start != "" || d.Timeline.Peak != "" {
		fmt.Fprintf(&sb, "Timeline: starts %s, peaks %s, improves %s\n\n", d.Timeline.Start, d.Timeline.Peak, d.Timeline.Improve)
	}

	if len(d.AlternativeScenarios) > 0 {
		fmt.Fprintf(&sb, "## Alternative scenarios\n\n")
		for _, s := range d.AlternativeScenarios {
			fmt.Fprintf(&sb, "- %s (%.0f%%): %s\n", s.Scenario, s.Probability, s.Impact)
		}
		sb.WriteString("\n")
	}

	writeRecommendations(&sb, "For the district", d.Recommendations.ForDistrict)
	writeRecommendations(&sb, "For families", d.Recommendations.ForFamilies)
	writeRecommendations(&sb, "For authorities", d.Recommendations.ForAuthorities)

	if c := result.Collaboration; c != nil {
		fmt.Fprintf(&sb, "## Debate\n\n")
		fmt.Fprintf(&sb, "%s\n\n", c.Summary)
		for _, r := range c.Rounds {
			fmt.Fprintf(&sb, "### Round %d (spread %.0f)\n\n", r.Number, r.Spread)
			for _, p := range r.Positions {
				fmt.Fprintf(&sb, "- **%s**: %.0f%% (confidence %.0f): %s\n", p.Specialist, p.Probability, p.Confidence, p.Rationale)
			}
			sb.WriteString("\n")
		}
		if len(c.KeyDisagreements) > 0 {
			fmt.Fprintf(&sb, "### Unresolved disagreements\n\n")
			for _, rec := range c.KeyDisagreements {
				fmt.Fprintf(&sb, "- round %d, %s vs %s (%s): %s\n", rec.Round, rec.Challenger, rec.Target, rec.Impact, rec.Challenge)
			}
			sb.WriteString("\n")
		}
	}

	return os.WriteFile(filepath.Join(w.dir, "forecast.md"), []byte(sb.String()), 0o644)
}

func writeRecommendations(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
