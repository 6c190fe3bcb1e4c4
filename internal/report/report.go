package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aliskhannn/batch-image-processor/internal/model"
)

// Document is the on-disk form of a batch report: the aggregate
// counters plus the inputs that produced them, so a report is
// reproducible on its own.
type Document struct {
	Timestamp time.Time    `json:"timestamp"`
	Params    model.Params `json:"params"`
	Workers   int          `json:"workers"`
	model.Report
}

// Write serializes the report as JSON into dir under a timestamped
// name and returns the file path.
func Write(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	name := fmt.Sprintf("report_%s.json", doc.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
