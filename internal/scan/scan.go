package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/model"
)

// outputPrefix is prepended to every processed file name.
const outputPrefix = "processed_"

// Jobs enumerates the input directory and builds one job per image
// file, skipping subdirectories and files without a supported image
// extension. Each output lands in outputDir as processed_<name>; an
// explicit format override also rewrites the output extension so the
// file name matches its codec.
func Jobs(inputDir, outputDir string, params model.Params, override format.Format) ([]model.Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var jobs []model.Job
	for _, e := range entries {
		if e.IsDir() || !format.Supported(e.Name()) {
			continue
		}

		name := outputPrefix + e.Name()
		if override != "" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + override.Extension()
		}

		jobs = append(jobs, model.Job{
			InputPath:  filepath.Join(inputDir, e.Name()),
			OutputPath: filepath.Join(outputDir, name),
			Params:     params,
			Format:     override,
		})
	}

	return jobs, nil
}
