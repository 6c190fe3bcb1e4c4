package model

import (
	"time"

	"github.com/google/uuid"
)

// ErrorKind classifies why a job failed.
type ErrorKind string

const (
	DecodeError    ErrorKind = "decode_error"    // unreadable or corrupt input
	TransformError ErrorKind = "transform_error" // invalid parameter reached a stage
	EncodeError    ErrorKind = "encode_error"    // unsupported or failed encode
	IOError        ErrorKind = "io_error"        // filesystem access failure
)

// Failure describes a single failed job for diagnostics.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

// Outcome is the result of executing exactly one Job: either completed
// with its elapsed wall-clock time, or failed with a cause. Every
// submitted Job yields exactly one Outcome.
type Outcome struct {
	InputPath  string        `json:"input_path"`
	OutputPath string        `json:"output_path,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	Failure    *Failure      `json:"failure,omitempty"`
}

// Completed reports whether the job produced an output file.
func (o Outcome) Completed() bool {
	return o.Failure == nil
}

// Report aggregates the outcomes of one batch. It is built
// incrementally as outcomes arrive and finalized only after every
// submitted job has reported, so Processed+Errors always equals the
// number of submitted jobs.
type Report struct {
	BatchID         uuid.UUID     `json:"batch_id"`
	Processed       int           `json:"processed_count"`
	Errors          int           `json:"error_count"`
	TotalTime       time.Duration `json:"total_time"`
	AveragePerImage time.Duration `json:"average_time_per_image"`
	Failures        []Failure     `json:"failures,omitempty"`
}
